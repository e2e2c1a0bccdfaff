package wal

import "time"

// DefaultMaxSegmentSize is used when Config.MaxSegmentSize is zero.
const DefaultMaxSegmentSize = 128 * 1024 * 1024

// DefaultBatchWindow is used when Config.FsyncPolicy is FsyncPolicyBatch and
// Config.BatchWindow is zero.
const DefaultBatchWindow = 5 * time.Millisecond

// Config configures Open.
type Config struct {
	// Dir is the directory segment files live in. It is created if it does not exist.
	Dir string

	// MaxSegmentSize bounds how large a segment grows before rotation. Defaults to
	// DefaultMaxSegmentSize.
	MaxSegmentSize int64

	// FsyncPolicy controls when appends become durable. Defaults to FsyncPolicyBatch.
	FsyncPolicy FsyncPolicyType

	// BatchWindow is the grouping window used by FsyncPolicyBatch. Defaults to
	// DefaultBatchWindow.
	BatchWindow time.Duration

	// NodeID is stamped onto every Event this Wal emits, so a shared Meter can tell
	// multiple Wal instances apart.
	NodeID uint32

	// Meter receives metrics and events. Defaults to a no-op sink.
	Meter Meter

	// AllowCompression permits Append to accept records with a non-none Compression.
	// Off by default: a Wal that never compresses never needs to carry a decompression
	// dependency into whatever reads its output.
	AllowCompression bool
}

func (c Config) withDefaults() Config {
	if c.MaxSegmentSize <= 0 {
		c.MaxSegmentSize = DefaultMaxSegmentSize
	}
	if c.FsyncPolicy == 0 {
		c.FsyncPolicy = FsyncPolicyBatch
	}
	if c.BatchWindow <= 0 {
		c.BatchWindow = DefaultBatchWindow
	}
	return c
}
