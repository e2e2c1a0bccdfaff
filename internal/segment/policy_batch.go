package segment

import (
	"log"
	"sync"
	"time"
)

// batchPolicy implements FsyncPolicyBatch: it tracks the highest position any
// append has reached (pending) and the highest position actually fsynced
// (synced), waking a background timer every window to catch pending up to
// synced. Appenders block until synced has advanced past their own position.
//
// It pairs a pending/synced Position with a sync.Cond so every appender
// waits on the same broadcast instead of issuing its own fsync.
type batchPolicy struct {
	window time.Duration
	syncFn func() error

	mu       sync.Mutex
	cond     *sync.Cond
	timer    *time.Timer
	timerSet bool
	pending  Position
	synced   Position

	shutdown chan struct{}
	wg       sync.WaitGroup
}

func newBatchPolicy(window time.Duration, syncFn func() error) *batchPolicy {
	p := &batchPolicy{
		window:   window,
		syncFn:   syncFn,
		timer:    time.NewTimer(window),
		shutdown: make(chan struct{}),
	}
	p.timer.Stop()
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *batchPolicy) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.timer.C:
			p.fire()
		case <-p.shutdown:
			return
		}
	}
}

func (p *batchPolicy) fire() {
	p.mu.Lock()
	target := p.pending
	p.timerSet = false
	p.mu.Unlock()

	if err := p.syncFn(); err != nil {
		log.Printf("wal: periodic fsync failed: %s", err)
		return
	}

	p.mu.Lock()
	p.synced = maxPosition(p.synced, target)
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *batchPolicy) Append(pos Position) error {
	p.mu.Lock()
	p.pending = maxPosition(p.pending, pos)
	if !p.timerSet {
		p.timer.Reset(p.window)
		p.timerSet = true
	}
	for p.synced.Less(pos) {
		p.cond.Wait()
	}
	p.mu.Unlock()
	return nil
}

func (p *batchPolicy) Close() error {
	p.timer.Stop()
	close(p.shutdown)
	p.wg.Wait()

	p.mu.Lock()
	target := p.pending
	needSync := p.synced.Less(target)
	p.mu.Unlock()
	if !needSync {
		return nil
	}

	if err := p.syncFn(); err != nil {
		return err
	}

	p.mu.Lock()
	p.synced = maxPosition(p.synced, target)
	p.cond.Broadcast()
	p.mu.Unlock()
	return nil
}
