package codec

import (
	"errors"
	"hash/crc32"
	"io"
)

const crcSize = 4

// DecodeFrame reads one on-disk frame from r.
//
// scratch is used to decode the leading length varuint without allocating
// and must have length at least binary.MaxVarintLen64. data is reused as
// backing storage for the payload+checksum bytes when it has enough
// capacity; otherwise a larger slice is allocated and returned, so the
// buffer grows to its high-water mark and repeated calls settle into zero
// allocations. maxPayload bounds how large a declared length is
// allowed to be before DecodeFrame bails out with ErrBadLength, so a
// corrupt length field cannot trigger a runaway allocation.
//
// On success it returns the decoded record, the (possibly grown) data slice,
// and the number of bytes consumed from r. The returned Record's Key and
// Value alias data: callers that need to retain them past the next call to
// DecodeFrame must copy them first.
//
// On error the returned consumed count reflects exactly how many bytes were
// read from r; callers that can seek are expected to rewind by that amount so
// no partial frame is ever considered committed.
func DecodeFrame(r io.Reader, scratch []byte, data []byte, maxPayload int64) (Record, []byte, int, error) {
	length, n, err := ReadUvarint(r, scratch)
	if err != nil {
		return Record{}, data, n, truncatedOrErr(err)
	}
	if length < 1 || int64(length) > maxPayload {
		return Record{}, data, n, ErrBadLength
	}

	required := int(length) + crcSize
	if cap(data) < required {
		data = make([]byte, required)
	}
	data = data[:required]

	if read, err := io.ReadFull(r, data); err != nil {
		return Record{}, data, n + read, truncatedOrErr(err)
	}
	consumed := n + required

	body := data[:length]
	storedCrc := Endian.Uint32(data[length:required])
	if crc32.Checksum(body, castagnoliTable) != storedCrc {
		return Record{}, data, consumed, ErrBadCrc
	}

	rec, err := decodeBody(body)
	if err != nil {
		return Record{}, data, consumed, err
	}
	return rec, data, consumed, nil
}

func decodeBody(body []byte) (Record, error) {
	if len(body) < 1 {
		return Record{}, ErrBadLength
	}
	flags := body[0]
	if flags&flagReservedMask != 0 {
		return Record{}, ErrUnknownFlags
	}
	rest := body[1:]

	rec := Record{
		Tombstone:   flags&flagTombstone != 0,
		HasTTL:      flags&flagHasTTL != 0,
		Compression: CompressionType((flags & flagCompressionMask) >> flagCompressionShift),
	}

	if rec.HasTTL {
		if len(rest) < 8 {
			return Record{}, ErrBadLength
		}
		rec.TTL = msToDuration(Endian.Uint64(rest[:8]))
		rest = rest[8:]
	}

	klen, n, err := readUvarintSlice(rest)
	if err != nil {
		return Record{}, ErrBadLength
	}
	rest = rest[n:]

	vlen, n, err := readUvarintSlice(rest)
	if err != nil {
		return Record{}, ErrBadLength
	}
	rest = rest[n:]

	if uint64(len(rest)) != klen+vlen {
		return Record{}, ErrBadLength
	}
	if rec.Tombstone && vlen != 0 {
		return Record{}, ErrTombstoneHasValue
	}

	rec.Key = rest[:klen]
	rec.Value = rest[klen:]
	return rec, nil
}

func truncatedOrErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
