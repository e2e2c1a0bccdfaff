package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor implements Compressor with github.com/klauspost/compress/zstd.
// A single instance is safe for concurrent use and should be reused across
// calls; constructing one initializes a shared encoder/decoder pair.
type ZstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdCompressor builds a ZstdCompressor with the library's default
// encoder/decoder settings.
func NewZstdCompressor() (*ZstdCompressor, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: building zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("codec: building zstd decoder: %w", err)
	}
	return &ZstdCompressor{encoder: enc, decoder: dec}, nil
}

func (z *ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	return z.encoder.EncodeAll(src, dst), nil
}

func (z *ZstdCompressor) Decompress(dst, src []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(src, dst)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decode: %w", err)
	}
	return out, nil
}

// Close releases the background goroutines the encoder/decoder maintain.
func (z *ZstdCompressor) Close() error {
	z.decoder.Close()
	return z.encoder.Close()
}
