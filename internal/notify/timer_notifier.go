package notify

import (
	"sync"
	"time"
)

// TimerNotifier is an in-process PlatformNotifier backed by one-shot timers.
// It stands in for the OS notification center when the client is a terminal
// app: delivery invokes the callback on the timer goroutine.
type TimerNotifier struct {
	deliver func(identifier string, content Content)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewTimerNotifier creates a notifier that calls deliver when a scheduled
// notification fires
func NewTimerNotifier(deliver func(identifier string, content Content)) *TimerNotifier {
	return &TimerNotifier{
		deliver: deliver,
		timers:  make(map[string]*time.Timer),
	}
}

// ScheduleAfter registers a notification to fire after delaySeconds,
// replacing any pending one with the same identifier
func (n *TimerNotifier) ScheduleAfter(identifier string, delaySeconds int, content Content) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timer, ok := n.timers[identifier]; ok {
		timer.Stop()
	}
	n.timers[identifier] = time.AfterFunc(time.Duration(delaySeconds)*time.Second, func() {
		n.mu.Lock()
		delete(n.timers, identifier)
		n.mu.Unlock()
		n.deliver(identifier, content)
	})
	return nil
}

// Cancel stops a pending notification; unknown identifiers are a no-op
func (n *TimerNotifier) Cancel(identifier string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timer, ok := n.timers[identifier]; ok {
		timer.Stop()
		delete(n.timers, identifier)
	}
	return nil
}

// Close cancels every pending notification
func (n *TimerNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for identifier, timer := range n.timers {
		timer.Stop()
		delete(n.timers, identifier)
	}
}
