package segment

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nori-kv/wal/internal/codec"
	"github.com/nori-kv/wal/internal/observe"
)

// RecoveryInfo summarizes what Open found when it scanned the directory.
type RecoveryInfo struct {
	SegmentsScanned    int
	ValidRecords       uint64
	BytesTruncated     int64
	CorruptionDetected bool
}

type recoveredActive struct {
	id          uint64
	writeOffset int64
}

// runRecovery implements the scan-validate-truncate algorithm: every segment
// but the last must decode cleanly end to end (a decode failure there is
// ErrFatalCorruption, since it can't be the product of a crash mid-write);
// the last segment may have a torn tail, which is truncated away.
func runRecovery(dir string, meter observe.Meter, maxSegmentSize int64, nodeID uint32) (RecoveryInfo, recoveredActive, error) {
	ids, err := GetSegments(dir)
	if err != nil {
		return RecoveryInfo{}, recoveredActive{}, err
	}

	if len(ids) == 0 {
		f, err := createSegment(dir, 0, maxSegmentSize)
		if err != nil {
			return RecoveryInfo{}, recoveredActive{}, err
		}
		if err := f.close(); err != nil {
			return RecoveryInfo{}, recoveredActive{}, err
		}
		return RecoveryInfo{SegmentsScanned: 0}, recoveredActive{id: 0, writeOffset: 0}, nil
	}

	info := RecoveryInfo{SegmentsScanned: len(ids)}
	lastIdx := len(ids) - 1

	for i, id := range ids {
		validCount, truncateAt, fileSize, err := scanSegment(dir, id)
		if err != nil {
			return RecoveryInfo{}, recoveredActive{}, err
		}
		info.ValidRecords += validCount

		if truncateAt < 0 {
			// The segment decoded cleanly end to end.
			if i != lastIdx {
				continue
			}
			if fileSize < maxSegmentSize {
				return info, recoveredActive{id: id, writeOffset: fileSize}, nil
			}
			nextID := id + 1
			f, err := createSegment(dir, nextID, maxSegmentSize)
			if err != nil {
				return RecoveryInfo{}, recoveredActive{}, err
			}
			if err := f.close(); err != nil {
				return RecoveryInfo{}, recoveredActive{}, err
			}
			return info, recoveredActive{id: nextID, writeOffset: 0}, nil
		}

		if i != lastIdx {
			return RecoveryInfo{}, recoveredActive{}, fmt.Errorf("%w: segment %s", ErrFatalCorruption, FileName(id))
		}

		bytesTruncated := fileSize - truncateAt
		if err := truncateSegment(dir, id, truncateAt); err != nil {
			return RecoveryInfo{}, recoveredActive{}, err
		}
		info.BytesTruncated += bytesTruncated
		info.CorruptionDetected = true
		meter.Event(observe.Event{Kind: observe.EventCorruptionTruncated, NodeID: nodeID, SegmentID: id, Bytes: uint64(bytesTruncated)})
		return info, recoveredActive{id: id, writeOffset: truncateAt}, nil
	}

	return RecoveryInfo{}, recoveredActive{}, fmt.Errorf("segment: recovery scan fell through without a decision")
}

// scanSegment walks every frame in segment id from byte 0. truncateAt is -1
// if the segment ends cleanly on a record boundary; otherwise it is the
// offset of the first frame that failed to decode, i.e. where the file
// should be truncated to discard a torn or corrupt tail.
func scanSegment(dir string, id uint64) (validCount uint64, truncateAt int64, fileSize int64, err error) {
	path := filepath.Join(dir, FileName(id))
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("segment: opening %q: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("segment: stat %q: %w", path, err)
	}
	fileSize = stat.Size()

	br := bufio.NewReaderSize(f, 64*1024)
	var scratch [binary.MaxVarintLen64]byte
	var data []byte
	var offset int64

	for offset < fileSize {
		_, newData, n, decErr := codec.DecodeFrame(br, scratch[:], data, fileSize-offset)
		data = newData
		if decErr != nil {
			return validCount, offset, fileSize, nil
		}
		validCount++
		offset += int64(n)
	}
	return validCount, -1, fileSize, nil
}

func truncateSegment(dir string, id uint64, length int64) error {
	path := filepath.Join(dir, FileName(id))
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("segment: opening %q: %w", path, err)
	}
	defer f.Close()

	if err := f.Truncate(length); err != nil {
		return fmt.Errorf("segment: truncating %q to %d bytes: %w", path, length, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("segment: syncing %q: %w", path, err)
	}
	return syncDir(dir)
}
