//go:build linux

package segment

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// preallocateFile reserves size bytes for f using fallocate(2) with
// FALLOC_FL_KEEP_SIZE, so the file's reported size stays at the bytes
// actually written and the reserved space is never read as log data. A
// filesystem that does not support the operation is not treated as an
// error: the segment still works, it just grows on demand like an ordinary
// file.
func preallocateFile(f *os.File, size int64) error {
	if size <= 0 {
		return nil
	}
	if err := unix.Fallocate(int(f.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, size); err != nil {
		if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOTSUP) {
			return nil
		}
		return err
	}
	return nil
}
