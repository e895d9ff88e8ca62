package session

import (
	"sync"
	"time"
)

// Scheduler drives periodic stepping on behalf of a Session. Start replaces
// any previous schedule; after Stop returns no further onTick call may run.
type Scheduler interface {
	Start(interval time.Duration, onTick func())
	Stop()
}

// TickerScheduler turns a time.Ticker into callbacks the host runs on its own
// goroutine. Ticks are posted to Ticks() and at most one is pending at a time;
// a tick that fires while the host is busy is dropped.
type TickerScheduler struct {
	ticks chan func()

	mu    sync.Mutex
	epoch uint64
	done  chan struct{}
}

func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{ticks: make(chan func(), 1)}
}

// Ticks returns the channel the host loop must drain and invoke
func (t *TickerScheduler) Ticks() <-chan func() {
	return t.ticks
}

// Start begins posting onTick every interval
func (t *TickerScheduler) Start(interval time.Duration, onTick func()) {
	t.Stop()

	t.mu.Lock()
	t.epoch++
	epoch := t.epoch
	done := make(chan struct{})
	t.done = done
	t.mu.Unlock()

	tick := func() {
		// a tick posted before Stop may still be sitting in the channel
		if t.current(epoch) {
			onTick()
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !t.post(done, tick) {
					return
				}
			}
		}
	}()
}

// post queues tick unless the schedule that owns done has been stopped.
// It holds mu so a Stop cannot slip between the check and the send.
func (t *TickerScheduler) post(done chan struct{}, tick func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != done {
		return false
	}
	select {
	case t.ticks <- tick:
	default:
	}
	return true
}

// Stop cancels the schedule and discards any tick already posted, so the
// next Start begins with an empty slot
func (t *TickerScheduler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
	t.epoch++
	select {
	case <-t.ticks:
	default:
	}
}

func (t *TickerScheduler) current(epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done != nil && t.epoch == epoch
}
