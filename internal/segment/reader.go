package segment

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nori-kv/wal/internal/codec"
)

// Reader is a forward-only snapshot view over one or more segments,
// starting at a given Position and terminating at the write offset of the
// active segment observed when the Reader was created. Records appended
// after that point are not visible, even if the Reader outlives them.
//
// Value's Key and Value alias the Reader's internal scratch buffer; callers
// that need to retain them past the next call to Next must copy them first.
type Reader struct {
	dir    string
	ids    []uint64
	idx    int
	endPos Position

	f         *os.File
	remaining int64
	curID     uint64
	curOffset int64

	scratch [binary.MaxVarintLen64]byte
	data    []byte

	value codec.Record
	pos   Position
	err   error
}

func newReader(dir string, start Position, ids []uint64, endPos Position) (*Reader, error) {
	r := &Reader{dir: dir, ids: ids, endPos: endPos}
	if len(ids) == 0 {
		return r, nil
	}

	startOffset := int64(0)
	if ids[0] == start.SegmentID {
		startOffset = int64(start.Offset)
	}
	if err := r.openSegment(ids[0], startOffset); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) openSegment(id uint64, startOffset int64) error {
	path := filepath.Join(r.dir, FileName(id))
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("segment: opening %q: %w", path, err)
	}

	var limit int64
	if id == r.endPos.SegmentID {
		limit = int64(r.endPos.Offset)
	} else {
		stat, statErr := f.Stat()
		if statErr != nil {
			f.Close()
			return fmt.Errorf("segment: stat %q: %w", path, statErr)
		}
		limit = stat.Size()
	}

	if _, err := f.Seek(startOffset, io.SeekStart); err != nil {
		f.Close()
		return fmt.Errorf("segment: seeking %q: %w", path, err)
	}

	r.f = f
	r.curID = id
	r.curOffset = startOffset
	r.remaining = limit - startOffset
	return nil
}

// Next advances the Reader to the next record, returning false at the end
// of the snapshot or on error (distinguishable via Err).
func (r *Reader) Next() bool {
	for {
		if r.f == nil {
			return false
		}
		if r.remaining <= 0 {
			if err := r.advanceSegment(); err != nil {
				r.err = err
				return false
			}
			if r.f == nil {
				return false
			}
			continue
		}

		rec, data, n, err := codec.DecodeFrame(r.f, r.scratch[:], r.data, r.remaining)
		r.data = data
		if err != nil {
			r.err = fmt.Errorf("segment: decoding record in %s at offset %d: %w", FileName(r.curID), r.curOffset, err)
			return false
		}

		r.value = rec
		r.pos = Position{SegmentID: r.curID, Offset: uint64(r.curOffset)}
		r.curOffset += int64(n)
		r.remaining -= int64(n)
		return true
	}
}

func (r *Reader) advanceSegment() error {
	if err := r.f.Close(); err != nil {
		return err
	}
	r.f = nil

	r.idx++
	if r.idx >= len(r.ids) {
		return nil
	}
	return r.openSegment(r.ids[r.idx], 0)
}

// Value returns the record Next most recently decoded.
func (r *Reader) Value() codec.Record {
	return r.value
}

// Position returns the position of the record Next most recently decoded.
func (r *Reader) Position() Position {
	return r.pos
}

// Err returns the error that caused Next to return false, or nil if the
// Reader simply reached the end of its snapshot.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the currently open segment file, if any.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}
