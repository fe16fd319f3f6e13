package notify

import (
	"log"
	"math"
	"time"
)

// NotificationID derives the platform identifier for an action's reminder.
// Deterministic, so re-scheduling replaces rather than duplicates and
// cancellation needs no bookkeeping.
func NotificationID(actionID string) string {
	return "reminder-" + actionID
}

// LocalScheduler manages the device-local notification for each action's
// reminder. Failures are logged and swallowed: losing the local path only
// degrades to server-sweep delivery, which is the correctness backstop.
type LocalScheduler struct {
	notifier PlatformNotifier
	now      func() time.Time
}

// NewLocalScheduler creates a scheduler over the given platform capability
func NewLocalScheduler(notifier PlatformNotifier) *LocalScheduler {
	return &LocalScheduler{
		notifier: notifier,
		now:      time.Now,
	}
}

// Schedule registers a notification for an action due at remindAt. A no-op
// for past times. Any existing notification for the action is cancelled
// first, so calling twice is idempotent.
func (s *LocalScheduler) Schedule(actionID, text, dreamTitle string, remindAt time.Time) {
	now := s.now()
	if !remindAt.After(now) {
		return
	}

	id := NotificationID(actionID)
	if err := s.notifier.Cancel(id); err != nil {
		log.Printf("notify: cancel before reschedule of %s: %v", id, err)
	}

	delaySeconds := int(math.Round(remindAt.Sub(now).Seconds()))
	content := Content{
		Title: dreamTitle,
		Body:  text,
		Data:  map[string]string{"type": "reminder", "entityId": actionID},
	}
	if err := s.notifier.ScheduleAfter(id, delaySeconds, content); err != nil {
		log.Printf("notify: schedule %s failed, server sweep will cover it: %v", id, err)
	}
}

// Cancel removes the action's notification. Safe when none exists.
func (s *LocalScheduler) Cancel(actionID string) {
	id := NotificationID(actionID)
	if err := s.notifier.Cancel(id); err != nil {
		log.Printf("notify: cancel %s: %v", id, err)
	}
}
