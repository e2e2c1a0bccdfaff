package codec

import "errors"

var (
	// ErrTruncated is returned when the stream ends before a full frame could be read.
	ErrTruncated = errors.New("codec: truncated record")

	// ErrBadLength is returned when the declared length is internally inconsistent: it
	// exceeds the bound the caller supplied, the flags byte is missing, or klen+vlen does
	// not match the bytes actually present.
	ErrBadLength = errors.New("codec: inconsistent record length")

	// ErrBadCrc is returned when the trailing checksum does not match the payload.
	ErrBadCrc = errors.New("codec: checksum mismatch")

	// ErrUnknownFlags is returned when a reserved flag bit is set.
	ErrUnknownFlags = errors.New("codec: unknown flag bits set")

	// ErrRecordTooLarge is returned by Encode when the encoded frame would not fit in a
	// uint32 length field.
	ErrRecordTooLarge = errors.New("codec: record exceeds maximum encoded size")

	// ErrCompressionUnsupported is returned when a record requests a compression scheme
	// this build cannot write. Decompress does not return it: a scheme with no
	// registered Compressor is passed through undecoded.
	ErrCompressionUnsupported = errors.New("codec: unsupported compression scheme")

	// ErrTombstoneHasValue is returned when a tombstone record carries a non-empty value.
	ErrTombstoneHasValue = errors.New("codec: tombstone record must not carry a value")
)
