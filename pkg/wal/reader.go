package wal

import (
	"github.com/nori-kv/wal/internal/codec"
	"github.com/nori-kv/wal/internal/segment"
)

// Reader is a forward-only snapshot view over the log, starting at the
// Position it was opened with and terminating at the write offset observed
// at that time. Records appended after the Reader was created are not
// visible.
//
// Value's Key and Value alias the Reader's internal scratch buffer; callers
// that need to retain them past the next call to Next must copy them first.
type Reader struct {
	inner       *segment.Reader
	compressors codec.Compressors
	value       Record
	err         error
}

// Next advances the Reader to the next record, returning false at the end
// of the snapshot or on error (distinguishable via Err).
func (r *Reader) Next() bool {
	if !r.inner.Next() {
		return false
	}
	rec := r.inner.Value()
	if err := r.compressors.Decompress(&rec); err != nil {
		r.err = err
		return false
	}
	r.value = rec
	return true
}

// Value returns the record Next most recently decoded.
func (r *Reader) Value() Record {
	return r.value
}

// Position returns the position of the record Next most recently decoded.
func (r *Reader) Position() Position {
	return r.inner.Position()
}

// Err returns the error that caused Next to return false, or nil if the
// Reader simply reached the end of its snapshot.
func (r *Reader) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.inner.Err()
}

// Close releases the Reader's open file handle.
func (r *Reader) Close() error {
	return r.inner.Close()
}
