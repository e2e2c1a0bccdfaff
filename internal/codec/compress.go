package codec

// Compressor compresses and decompresses the Value half of a Record. dst may
// be nil; implementations should treat it as scratch space to append to and
// return the result, the way the standard library's append-style codecs do.
type Compressor interface {
	Compress(dst, src []byte) ([]byte, error)
	Decompress(dst, src []byte) ([]byte, error)
}

// Compressors maps a CompressionType to the Compressor that implements it.
// CompressionNone is never looked up here; it is handled as a no-op by
// callers before consulting this map.
type Compressors map[CompressionType]Compressor

// Compress runs rec.Value through the Compressor registered for
// rec.Compression, replacing it in place. CompressionNone is a no-op.
func (c Compressors) Compress(rec *Record) error {
	if rec.Compression == CompressionNone {
		return nil
	}
	comp, ok := c[rec.Compression]
	if !ok {
		return ErrCompressionUnsupported
	}
	out, err := comp.Compress(nil, rec.Value)
	if err != nil {
		return err
	}
	rec.Value = out
	return nil
}

// Decompress reverses Compress. Records read with CompressionNone, or with a
// scheme not present in c, are returned unchanged — a reader with no
// matching Compressor passes the bytes through undecoded rather than
// failing, since the caller may only want to inspect the key or position.
func (c Compressors) Decompress(rec *Record) error {
	if rec.Compression == CompressionNone {
		return nil
	}
	comp, ok := c[rec.Compression]
	if !ok {
		return nil
	}
	out, err := comp.Decompress(nil, rec.Value)
	if err != nil {
		return err
	}
	rec.Value = out
	return nil
}
