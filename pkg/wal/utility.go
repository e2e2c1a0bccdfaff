package wal

import "github.com/nori-kv/wal/internal/segment"

// GetSegments lists the segment ids present in dir, sorted ascending.
var GetSegments = segment.GetSegments
