package wal

import (
	"github.com/nori-kv/wal/internal/codec"
	"github.com/nori-kv/wal/internal/observe"
	"github.com/nori-kv/wal/internal/segment"
)

// Position addresses a single record: the segment it lives in and its byte
// offset within that segment.
type Position = segment.Position

// RecoveryInfo summarizes what Open found when it scanned the directory.
type RecoveryInfo = segment.RecoveryInfo

// Record is a single logical entry appended to the log.
type Record = codec.Record

// CompressionType identifies how a Record's Value is stored on disk.
type CompressionType = codec.CompressionType

const (
	CompressionNone = codec.CompressionNone
	CompressionLZ4  = codec.CompressionLZ4
	CompressionZstd = codec.CompressionZstd
)

// FsyncPolicyType selects how aggressively Append fsyncs the active segment.
type FsyncPolicyType = segment.FsyncPolicyType

const (
	// FsyncPolicyAlways fsyncs after every append and blocks the caller on it.
	FsyncPolicyAlways = segment.FsyncPolicyAlways
	// FsyncPolicyBatch groups appends arriving within a window into one shared fsync.
	FsyncPolicyBatch = segment.FsyncPolicyBatch
	// FsyncPolicyOs leaves durability to the OS page cache until an explicit Sync.
	FsyncPolicyOs = segment.FsyncPolicyOs
)

// Meter is the observability sink the log reports through.
type Meter = observe.Meter

// Event is a typed notification emitted to a Meter.
type Event = observe.Event

// EventKind tags the shape of an Event's payload.
type EventKind = observe.EventKind

const (
	EventSegmentRoll         = observe.EventSegmentRoll
	EventFsync               = observe.EventFsync
	EventCorruptionTruncated = observe.EventCorruptionTruncated
)
