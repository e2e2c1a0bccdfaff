//go:build !linux

package segment

import "os"

// preallocateFile is a no-op on platforms without a native pre-allocation
// primitive wired up. The segment still behaves correctly; it simply grows
// on demand.
func preallocateFile(f *os.File, size int64) error {
	return nil
}
