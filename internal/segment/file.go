package segment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
)

// file wraps a single segment's *os.File, tracking the logical write offset
// and the offset last made durable. A freshly created segment may have disk
// space reserved out to MaxSegmentSize; the reservation does not change the
// file's reported size, so that size is the number of bytes written. Every
// append goes through WriteAt at the tracked offset rather than relying on
// O_APPEND, so a reopened segment resumes exactly at the write offset
// recovery decided on.
type file struct {
	*os.File
	writeOffset int64
	syncOffset  int64
}

// createSegment creates a brand-new segment file with id, failing if it
// already exists, and best-effort pre-allocates it out to maxSegmentSize.
func createSegment(dir string, id uint64, maxSegmentSize int64) (*file, error) {
	path := filepath.Join(dir, FileName(id))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("segment: creating %q: %w", path, err)
	}
	if err := preallocateFile(f, maxSegmentSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("segment: pre-allocating %q: %w", path, err)
	}
	return &file{File: f}, nil
}

// openSegment reopens an existing segment for read-write append, positioned
// at a previously-determined logical write offset (as decided by recovery).
func openSegment(dir string, id uint64, writeOffset int64) (*file, error) {
	path := filepath.Join(dir, FileName(id))
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("segment: opening %q: %w", path, err)
	}
	return &file{File: f, writeOffset: writeOffset, syncOffset: writeOffset}, nil
}

// append writes b at the current logical write offset and advances it,
// returning the offset the write started at.
func (f *file) append(b []byte) (int64, error) {
	offset := f.writeOffset
	if _, err := f.WriteAt(b, offset); err != nil {
		return 0, fmt.Errorf("segment: appending to %q: %w", f.Name(), err)
	}
	f.writeOffset += int64(len(b))
	return offset, nil
}

// sync fsyncs the file and records how far the write offset had advanced.
func (f *file) sync() error {
	if err := f.Sync(); err != nil {
		return fmt.Errorf("segment: syncing %q: %w", f.Name(), err)
	}
	f.syncOffset = f.writeOffset
	return nil
}

func (f *file) close() error {
	return f.Close()
}

// syncDir fsyncs dir itself, which is what makes a newly created or renamed
// directory entry durable. Directory fsync is not universally supported;
// EINVAL and Windows are treated as success rather than failure.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("segment: opening directory %q: %w", dir, err)
	}
	defer d.Close()

	if err := d.Sync(); err != nil {
		if runtime.GOOS == "windows" || errors.Is(err, syscall.EINVAL) {
			return nil
		}
		return fmt.Errorf("segment: syncing directory %q: %w", dir, err)
	}
	return nil
}
