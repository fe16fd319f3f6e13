// Package focustimer implements the countdown used for focused work
// sessions. The timer ticks once per second while running and reconciles
// wall-clock time in a single step after the app was suspended, so remaining
// time never accumulates per-tick drift across a background period.
package focustimer

import (
	"errors"
	"time"
)

// State is the lifecycle state of a focus timer
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateComplete State = "complete"
)

// ErrRunning is returned when an operation requires a non-running timer
var ErrRunning = errors.New("focustimer: timer is running")

// Timer is a suspendable countdown. It is driven externally: the owner calls
// Tick once per second while the timer is running and visible, Suspend when
// the app leaves the foreground, and Resume when it returns. Not safe for
// concurrent use; it belongs to a single render loop.
type Timer struct {
	duration  time.Duration
	remaining time.Duration
	state     State

	suspended   bool
	suspendedAt time.Time
}

// New creates an idle timer for the given session duration
func New(duration time.Duration) *Timer {
	return &Timer{
		duration:  duration,
		remaining: duration,
		state:     StateIdle,
	}
}

// Start begins or resumes the countdown
func (t *Timer) Start() error {
	switch t.state {
	case StateIdle, StatePaused:
		t.state = StateRunning
		return nil
	default:
		return errors.New("focustimer: can only start from idle or paused")
	}
}

// Pause halts the countdown, keeping remaining time
func (t *Timer) Pause() error {
	if t.state != StateRunning {
		return errors.New("focustimer: can only pause while running")
	}
	t.state = StatePaused
	return nil
}

// Reset returns a non-running timer to idle with a full duration
func (t *Timer) Reset() error {
	if t.state == StateRunning {
		return ErrRunning
	}
	t.remaining = t.duration
	t.state = StateIdle
	t.suspended = false
	return nil
}

// SetDuration reconfigures the session length. Only allowed while not
// running; the timer resets to idle with the new duration.
func (t *Timer) SetDuration(duration time.Duration) error {
	if t.state == StateRunning {
		return ErrRunning
	}
	t.duration = duration
	t.remaining = duration
	t.state = StateIdle
	t.suspended = false
	return nil
}

// Tick advances the countdown by one second. No-op unless running and in the
// foreground; reaching zero completes the timer.
func (t *Timer) Tick() {
	if t.state != StateRunning || t.suspended {
		return
	}
	t.applyElapsed(time.Second)
}

// Suspend stops per-second ticking and captures the wall clock. Called when
// the app moves to the background; a no-op unless running.
func (t *Timer) Suspend(now time.Time) {
	if t.state != StateRunning || t.suspended {
		return
	}
	t.suspended = true
	t.suspendedAt = now
}

// Resume subtracts the actual elapsed wall-clock time since Suspend in one
// step, never replaying it tick by tick. Remaining time clamps at zero, which
// completes the timer.
func (t *Timer) Resume(now time.Time) {
	if !t.suspended {
		return
	}
	t.suspended = false
	if elapsed := now.Sub(t.suspendedAt); elapsed > 0 {
		t.applyElapsed(elapsed)
	}
}

func (t *Timer) applyElapsed(elapsed time.Duration) {
	t.remaining -= elapsed
	if t.remaining <= 0 {
		t.remaining = 0
		t.state = StateComplete
	}
}

// State returns the current lifecycle state
func (t *Timer) State() State {
	return t.state
}

// Remaining returns the time left in the session
func (t *Timer) Remaining() time.Duration {
	return t.remaining
}

// Duration returns the configured session length
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Progress reports session completion in [0, 1]
func (t *Timer) Progress() float64 {
	if t.duration <= 0 {
		return 0
	}
	return float64(t.duration-t.remaining) / float64(t.duration)
}
