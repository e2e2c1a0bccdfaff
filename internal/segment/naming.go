package segment

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// fileNameDigits and fileExtension define the on-disk segment naming scheme:
// a fixed-width, zero-padded decimal segment id followed by ".wal".
const (
	fileNameDigits = 6
	fileExtension  = ".wal"
)

var fileNamePattern = regexp.MustCompile(`^\d{6}\.wal$`)

// FileName returns the canonical file name for segment id.
func FileName(id uint64) string {
	return fmt.Sprintf("%0*d%s", fileNameDigits, id, fileExtension)
}

// GetSegments lists the segment ids present in dir, sorted ascending. Entries
// that do not match the naming scheme are ignored.
func GetSegments(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("segment: listing %q: %w", dir, err)
	}

	var ids []uint64
	for _, entry := range entries {
		if entry.IsDir() || !fileNamePattern.MatchString(entry.Name()) {
			continue
		}
		idStr := entry.Name()[:fileNameDigits]
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
