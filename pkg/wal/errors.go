package wal

import (
	"github.com/nori-kv/wal/internal/codec"
	"github.com/nori-kv/wal/internal/segment"
)

var (
	ErrTruncated              = codec.ErrTruncated
	ErrBadLength              = codec.ErrBadLength
	ErrBadCrc                 = codec.ErrBadCrc
	ErrUnknownFlags           = codec.ErrUnknownFlags
	ErrRecordTooLarge         = codec.ErrRecordTooLarge
	ErrTombstoneHasValue      = codec.ErrTombstoneHasValue
	ErrCompressionUnsupported = codec.ErrCompressionUnsupported

	ErrInvalidConfig   = segment.ErrInvalidConfig
	ErrClosed          = segment.ErrClosed
	ErrFatalCorruption = segment.ErrFatalCorruption
)
