package segment

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nori-kv/wal/internal/codec"
	"github.com/nori-kv/wal/internal/observe"
	"github.com/nori-kv/wal/internal/utils"
)

const (
	metricRecordsAppended = "wal_records_appended_total"
	metricBytesAppended   = "wal_bytes_appended_total"
	metricFsyncSeconds    = "wal_fsync_duration_seconds"
	metricRolloverSeconds = "wal_rollover_duration_seconds"

	// MinSegmentSize is the smallest MaxSegmentSize a Manager will accept; anything
	// smaller makes rotation thrash on every append.
	MinSegmentSize = 4096
)

// Config configures a Manager.
type Config struct {
	Dir            string
	MaxSegmentSize int64
	FsyncPolicy    FsyncPolicyType
	BatchWindow    time.Duration
	NodeID         uint32
	Meter          observe.Meter
}

// Manager owns the active segment and every sealed one, implementing C3
// (rotation and the single-writer-mutex discipline) on top of C2 segment
// files and driving C4 (the fsync policy).
type Manager struct {
	noCopy utils.NoCopy

	dir            string
	maxSegmentSize int64
	nodeID         uint32
	meter          observe.Meter

	mu       sync.Mutex
	active   *file
	activeID uint64
	closed   bool

	policy fsyncPolicy

	encodeBuf  bytes.Buffer
	payloadBuf bytes.Buffer
	scratch    [binary.MaxVarintLen64]byte
}

// Open runs recovery against cfg.Dir (creating it and an initial segment if
// it does not exist) and returns a ready-to-use Manager positioned at the
// end of whatever valid data recovery found.
func Open(cfg Config) (*Manager, RecoveryInfo, error) {
	if cfg.MaxSegmentSize < MinSegmentSize {
		return nil, RecoveryInfo{}, fmt.Errorf("%w: max segment size must be at least %d bytes", ErrInvalidConfig, MinSegmentSize)
	}
	if cfg.Dir == "" {
		return nil, RecoveryInfo{}, fmt.Errorf("%w: dir must not be empty", ErrInvalidConfig)
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, RecoveryInfo{}, fmt.Errorf("segment: creating directory %q: %w", cfg.Dir, err)
	}

	meter := cfg.Meter
	if meter == nil {
		meter = observe.NoopMeter{}
	}

	info, active, err := runRecovery(cfg.Dir, meter, cfg.MaxSegmentSize, cfg.NodeID)
	if err != nil {
		return nil, RecoveryInfo{}, err
	}

	f, err := openSegment(cfg.Dir, active.id, active.writeOffset)
	if err != nil {
		return nil, RecoveryInfo{}, err
	}

	m := &Manager{
		dir:            cfg.Dir,
		maxSegmentSize: cfg.MaxSegmentSize,
		nodeID:         cfg.NodeID,
		meter:          meter,
		active:         f,
		activeID:       active.id,
	}
	m.policy = newFsyncPolicy(cfg.FsyncPolicy, cfg.BatchWindow, m.syncActive)
	return m, info, nil
}

// Append encodes and appends rec to the active segment, rotating first if it
// would not fit, then drives the fsync policy for that position.
func (m *Manager) Append(rec codec.Record) (Position, error) {
	m.mu.Lock()
	pos, err := m.appendLocked(rec)
	m.mu.Unlock()
	if err != nil {
		return Position{}, err
	}
	if err := m.policy.Append(pos); err != nil {
		return Position{}, err
	}
	return pos, nil
}

// AppendBatch appends every record in recs under a single lock acquisition
// and a single fsync-policy call for the last position, amortizing both the
// writer-mutex contention and (depending on policy) the fsync cost across
// the whole batch.
func (m *Manager) AppendBatch(recs []codec.Record) ([]Position, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	positions := make([]Position, len(recs))
	var last Position
	m.mu.Lock()
	for i, rec := range recs {
		pos, err := m.appendLocked(rec)
		if err != nil {
			m.mu.Unlock()
			return nil, err
		}
		positions[i] = pos
		last = pos
	}
	m.mu.Unlock()
	if err := m.policy.Append(last); err != nil {
		return nil, err
	}
	return positions, nil
}

func (m *Manager) appendLocked(rec codec.Record) (Position, error) {
	if m.closed {
		return Position{}, ErrClosed
	}

	m.encodeBuf.Reset()
	if err := codec.Encode(&m.encodeBuf, &m.payloadBuf, m.scratch[:], rec); err != nil {
		return Position{}, err
	}
	encoded := m.encodeBuf.Bytes()

	if m.active.writeOffset > 0 && m.active.writeOffset+int64(len(encoded)) > m.maxSegmentSize {
		if err := m.rotateLocked(); err != nil {
			return Position{}, err
		}
	}

	offset, err := m.active.append(encoded)
	if err != nil {
		return Position{}, err
	}

	m.meter.Counter(metricRecordsAppended, nil).Add(1)
	m.meter.Counter(metricBytesAppended, nil).Add(float64(len(encoded)))

	return Position{SegmentID: m.activeID, Offset: uint64(offset)}, nil
}

// rotateLocked seals the active segment and opens the next one. Callers
// must hold m.mu.
func (m *Manager) rotateLocked() error {
	start := time.Now()

	sealedID := m.activeID
	sealedBytes := m.active.writeOffset

	if err := m.active.sync(); err != nil {
		return err
	}
	if err := syncDir(m.dir); err != nil {
		return err
	}

	nextID := sealedID + 1
	next, err := createSegment(m.dir, nextID, m.maxSegmentSize)
	if err != nil {
		return err
	}

	m.active = next
	m.activeID = nextID

	m.meter.Event(observe.Event{Kind: observe.EventSegmentRoll, NodeID: m.nodeID, SegmentID: sealedID, Bytes: uint64(sealedBytes)})
	m.meter.Histogram(metricRolloverSeconds, nil).Observe(time.Since(start).Seconds())
	return nil
}

// syncActive fsyncs whatever segment is currently active. It is the closure
// every fsyncPolicy is built with; it never holds m.mu while the syscall
// itself runs, so rotation and further appends are not blocked on it.
func (m *Manager) syncActive() error {
	m.mu.Lock()
	active := m.active
	m.mu.Unlock()

	start := time.Now()
	if err := active.sync(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	m.meter.Event(observe.Event{Kind: observe.EventFsync, NodeID: m.nodeID, Duration: elapsed})
	m.meter.Histogram(metricFsyncSeconds, nil).Observe(elapsed.Seconds())
	return nil
}

// Sync forces an immediate fsync of the active segment regardless of policy.
func (m *Manager) Sync() error {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return m.syncActive()
}

// Flush hands every buffered byte to the OS without fsyncing it. Because
// every append in this package already goes through an unbuffered WriteAt
// syscall, there is no userspace buffer to flush by the time Flush is
// called; it exists for API symmetry with Sync so callers under Os or Batch
// policies have a cheap "make visible to concurrent readers" checkpoint that
// does not pay for a full fsync.
func (m *Manager) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// CurrentPosition returns the position the next append would land at.
func (m *Manager) CurrentPosition() Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Position{SegmentID: m.activeID, Offset: uint64(m.active.writeOffset)}
}

// ReadFrom opens a snapshot Reader starting at start and terminating at the
// write offset observed at call time, per the reader's snapshot semantics.
func (m *Manager) ReadFrom(start Position) (*Reader, error) {
	m.mu.Lock()
	end := Position{SegmentID: m.activeID, Offset: uint64(m.active.writeOffset)}
	m.mu.Unlock()

	ids, err := GetSegments(m.dir)
	if err != nil {
		return nil, err
	}

	filtered := ids[:0:0]
	for _, id := range ids {
		if id >= start.SegmentID {
			filtered = append(filtered, id)
		}
	}
	return newReader(m.dir, start, filtered, end)
}

// GCBelow deletes every whole sealed segment whose greatest position is
// strictly less than watermark, returning the number of bytes freed. A
// segment id strictly less than watermark.SegmentID always qualifies, since
// every position inside it necessarily sorts before watermark; the active
// segment and any segment with id >= watermark.SegmentID are never removed.
func (m *Manager) GCBelow(watermark Position) (int64, error) {
	ids, err := GetSegments(m.dir)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	activeID := m.activeID
	m.mu.Unlock()

	var freed int64
	for _, id := range ids {
		if id == activeID || id >= watermark.SegmentID {
			continue
		}
		path := filepath.Join(m.dir, FileName(id))
		info, statErr := os.Stat(path)
		if statErr != nil {
			if os.IsNotExist(statErr) {
				continue
			}
			return freed, statErr
		}
		if err := os.Remove(path); err != nil {
			return freed, fmt.Errorf("segment: removing %q: %w", path, err)
		}
		freed += info.Size()
	}
	return freed, nil
}

// Close flushes any pending fsync-policy work and closes the active segment.
// Close is idempotent-safe to call once; a second call returns ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.closed = true
	m.mu.Unlock()

	policyErr := m.policy.Close()

	m.mu.Lock()
	closeErr := m.active.close()
	m.mu.Unlock()

	return errors.Join(policyErr, closeErr)
}
