// Package wal is a segmented, checksummed, crash-recoverable write-ahead
// log. A Wal is a single-writer, multi-reader append log backed by
// fixed-size segment files; records are appended, optionally fsynced per a
// configurable policy, and can be read back either sequentially from a
// snapshot position or from the very start.
package wal
