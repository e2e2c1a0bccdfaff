package segment

import "time"

// FsyncPolicyType selects which fsyncPolicy implementation a Manager uses.
type FsyncPolicyType int

const (
	// FsyncPolicyAlways fsyncs after every single append and blocks the caller on it.
	FsyncPolicyAlways FsyncPolicyType = iota + 1
	// FsyncPolicyBatch groups appends arriving within a window into one shared fsync.
	FsyncPolicyBatch
	// FsyncPolicyOs never fsyncs on append; durability is left to the OS's page cache
	// eviction, and only an explicit Sync, Close or segment rotation forces one.
	FsyncPolicyOs
)

func (t FsyncPolicyType) String() string {
	switch t {
	case FsyncPolicyAlways:
		return "always"
	case FsyncPolicyBatch:
		return "batch"
	case FsyncPolicyOs:
		return "os"
	default:
		return "unknown"
	}
}

// DefaultBatchWindow is the grouping window used when FsyncPolicyBatch is
// selected without an explicit window.
const DefaultBatchWindow = 5 * time.Millisecond

// fsyncPolicy decides, for each append, whether and when the caller must
// wait for that append to be durable. sync is supplied by the owning
// Manager: it fsyncs whatever segment is currently active and records
// timing/metrics, so policies never touch a *file directly.
type fsyncPolicy interface {
	// Append is called once per append, outside the writer lock, with the position the
	// append reached. It returns once this policy's durability guarantee for that
	// position has been satisfied.
	Append(pos Position) error
	// Close flushes any pending background work and forces one final sync. The batch
	// policy skips that sync when every appended position is already synced.
	Close() error
}

func newFsyncPolicy(kind FsyncPolicyType, window time.Duration, sync func() error) fsyncPolicy {
	switch kind {
	case FsyncPolicyAlways:
		return newAlwaysPolicy(sync)
	case FsyncPolicyOs:
		return newOsPolicy(sync)
	case FsyncPolicyBatch:
		fallthrough
	default:
		if window <= 0 {
			window = DefaultBatchWindow
		}
		return newBatchPolicy(window, sync)
	}
}
