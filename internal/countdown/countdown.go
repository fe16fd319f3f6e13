// Package countdown renders reminder deadlines as short due labels and
// computes the minimal wake-up schedule needed to keep those labels fresh
// without polling.
package countdown

import (
	"fmt"
	"time"
)

const (
	minuteMillis = int64(time.Minute / time.Millisecond)
	hourMillis   = int64(time.Hour / time.Millisecond)
	dayMillis    = 24 * hourMillis
)

// Label describes the countdown state of a deadline at a point in time
type Label struct {
	Text      string `json:"text"`
	IsOverdue bool   `json:"is_overdue"`
}

// Format renders a deadline as a short due label relative to now.
// Returns nil when no deadline is set; callers render no countdown in that
// case. Minute counts round up and never show 0; hour and day counts round
// to nearest so a nearly-elapsed interval isn't perpetually undercounted.
func Format(deadline *time.Time, now time.Time) *Label {
	if deadline == nil {
		return nil
	}

	delta := deadline.Sub(now)
	if delta > 0 {
		switch {
		case delta < time.Minute:
			return &Label{Text: fmt.Sprintf("Due in %dm", ceilMinutes(delta))}
		case delta < time.Hour:
			return &Label{Text: fmt.Sprintf("Due in %dh", roundHours(delta))}
		case delta < 48*time.Hour:
			return &Label{Text: "Due tomorrow"}
		default:
			return &Label{Text: fmt.Sprintf("Due in %dd", roundDays(delta))}
		}
	}

	elapsed := -delta
	switch {
	case elapsed < time.Hour:
		return &Label{Text: fmt.Sprintf("Overdue %dm", ceilMinutes(elapsed)), IsOverdue: true}
	case elapsed < 24*time.Hour:
		return &Label{Text: fmt.Sprintf("Overdue %dh", roundHours(elapsed)), IsOverdue: true}
	default:
		return &Label{Text: fmt.Sprintf("Overdue %dd", roundDays(elapsed)), IsOverdue: true}
	}
}

// NextTickDelay computes how long a renderer can sleep before the label for
// deadline could change. Far from the deadline the cadence is coarse; inside
// the final minute it lands just past the due boundary so the display flips
// to overdue on time instead of waiting out a full interval.
func NextTickDelay(deadline, now time.Time) time.Duration {
	delta := deadline.Sub(now)
	if delta > 0 && delta < time.Minute {
		return delta + 100*time.Millisecond
	}

	abs := delta
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < time.Hour:
		return time.Minute
	case abs < 24*time.Hour:
		return 30 * time.Minute
	default:
		return time.Hour
	}
}

func ceilMinutes(d time.Duration) int64 {
	m := (d.Milliseconds() + minuteMillis - 1) / minuteMillis
	if m < 1 {
		m = 1
	}
	return m
}

func roundHours(d time.Duration) int64 {
	h := (d.Milliseconds() + hourMillis/2) / hourMillis
	if h < 1 {
		h = 1
	}
	return h
}

func roundDays(d time.Duration) int64 {
	days := (d.Milliseconds() + dayMillis/2) / dayMillis
	if days < 1 {
		days = 1
	}
	return days
}
