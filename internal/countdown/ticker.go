package countdown

import (
	"sync"
	"time"
)

// Ticker drives a live countdown display for a single deadline. It arms a
// single-shot timer for the next possible label change, invokes the callback
// with the fresh label, then re-arms against the current clock. The re-arm is
// always computed from time.Now at fire time, never a fixed period, so the
// cadence tightens as the deadline approaches.
//
// Stop must be called on teardown or deadline change; after Stop returns no
// further fires are scheduled, though a callback already in flight on the
// timer goroutine may still complete.
type Ticker struct {
	deadline time.Time
	onTick   func(Label)
	now      func() time.Time

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewTicker starts a ticker for deadline. The callback runs on the timer
// goroutine; it should hand off to the render loop rather than block.
func NewTicker(deadline time.Time, onTick func(Label)) *Ticker {
	t := &Ticker{
		deadline: deadline,
		onTick:   onTick,
		now:      time.Now,
	}
	t.mu.Lock()
	t.arm()
	t.mu.Unlock()
	return t
}

// arm schedules the next single-shot fire; caller holds mu.
func (t *Ticker) arm() {
	t.timer = time.AfterFunc(NextTickDelay(t.deadline, t.now()), t.fire)
}

func (t *Ticker) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	label := Format(&t.deadline, t.now())
	t.arm()
	t.mu.Unlock()

	t.onTick(*label)
}

// Stop cancels the pending single-shot. Safe to call more than once.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}
