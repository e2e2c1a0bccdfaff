package wal

import (
	"errors"

	"github.com/nori-kv/wal/internal/codec"
	"github.com/nori-kv/wal/internal/segment"
)

// Wal is a segmented, checksummed, crash-recoverable write-ahead log. A
// single Wal owns one directory and serializes all appends through it;
// readers opened from it see an independent, forward-only snapshot.
type Wal struct {
	manager          *segment.Manager
	allowCompression bool
	compressors      codec.Compressors
	zstd             *codec.ZstdCompressor
}

// Open opens (or creates) a write-ahead log in cfg.Dir, running crash
// recovery first. The returned RecoveryInfo describes what recovery found.
func Open(cfg Config) (*Wal, RecoveryInfo, error) {
	cfg = cfg.withDefaults()

	zstd, err := codec.NewZstdCompressor()
	if err != nil {
		return nil, RecoveryInfo{}, err
	}

	manager, info, err := segment.Open(segment.Config{
		Dir:            cfg.Dir,
		MaxSegmentSize: cfg.MaxSegmentSize,
		FsyncPolicy:    cfg.FsyncPolicy,
		BatchWindow:    cfg.BatchWindow,
		NodeID:         cfg.NodeID,
		Meter:          cfg.Meter,
	})
	if err != nil {
		zstd.Close()
		return nil, RecoveryInfo{}, err
	}

	w := &Wal{
		manager:          manager,
		allowCompression: cfg.AllowCompression,
		compressors:      codec.Compressors{codec.CompressionZstd: zstd},
		zstd:             zstd,
	}
	return w, info, nil
}

// OpenWithMeter is a convenience for Open(Config{Dir: dir, Meter: meter}),
// mirroring the distinction the original implementation drew between
// opening plainly and opening with an explicit observability sink.
func OpenWithMeter(dir string, meter Meter) (*Wal, RecoveryInfo, error) {
	return Open(Config{Dir: dir, Meter: meter})
}

func (w *Wal) prepareForWrite(rec *Record) error {
	if rec.Compression == codec.CompressionNone {
		return nil
	}
	if !w.allowCompression {
		return ErrCompressionUnsupported
	}
	return w.compressors.Compress(rec)
}

// Append encodes and appends rec, returning the Position it landed at.
func (w *Wal) Append(rec Record) (Position, error) {
	if err := w.prepareForWrite(&rec); err != nil {
		return Position{}, err
	}
	return w.manager.Append(rec)
}

// AppendBatch appends every record in recs under a single lock acquisition
// and a single fsync-policy call, amortizing both across the batch.
func (w *Wal) AppendBatch(recs []Record) ([]Position, error) {
	prepared := make([]Record, len(recs))
	for i, rec := range recs {
		if err := w.prepareForWrite(&rec); err != nil {
			return nil, err
		}
		prepared[i] = rec
	}
	return w.manager.AppendBatch(prepared)
}

// Sync forces an immediate fsync of the active segment, regardless of
// FsyncPolicy.
func (w *Wal) Sync() error {
	return w.manager.Sync()
}

// Flush hands every appended byte to the OS without fsyncing it. See
// segment.Manager.Flush for why this is a no-op given how appends are
// written; it is kept as a public operation for API symmetry with Sync.
func (w *Wal) Flush() error {
	return w.manager.Flush()
}

// CurrentPosition returns the position the next Append would land at.
func (w *Wal) CurrentPosition() Position {
	return w.manager.CurrentPosition()
}

// ReadFrom opens a snapshot Reader starting at start.
func (w *Wal) ReadFrom(start Position) (*Reader, error) {
	inner, err := w.manager.ReadFrom(start)
	if err != nil {
		return nil, err
	}
	return &Reader{inner: inner, compressors: w.compressors}, nil
}

// GCBelow deletes every sealed segment entirely below watermark, returning
// the number of bytes freed.
func (w *Wal) GCBelow(watermark Position) (int64, error) {
	return w.manager.GCBelow(watermark)
}

// Close flushes pending fsync-policy work and releases every resource the
// Wal holds, including the compression codec's background goroutines.
func (w *Wal) Close() error {
	managerErr := w.manager.Close()
	zstdErr := w.zstd.Close()
	return errors.Join(managerErr, zstdErr)
}
