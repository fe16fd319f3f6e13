package countdown

import (
	"fmt"
	"testing"
	"time"
)

var base = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestFormatNoDeadline(t *testing.T) {
	t.Parallel()

	if got := Format(nil, base); got != nil {
		t.Fatalf("Format(nil) = %+v, want nil", got)
	}
}

func TestFormatBuckets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		offset  time.Duration // deadline minus now
		text    string
		overdue bool
	}{
		{"thirty seconds out", 30 * time.Second, "Due in 1m", false},
		{"last millisecond of minute bucket", 59*time.Second + 999*time.Millisecond, "Due in 1m", false},
		{"exactly one minute", time.Minute, "Due in 1h", false},
		{"fifty-nine minutes", 59 * time.Minute, "Due in 1h", false},
		{"exactly one hour", time.Hour, "Due tomorrow", false},
		{"one day", 24 * time.Hour, "Due tomorrow", false},
		{"just under two days", 48*time.Hour - time.Millisecond, "Due tomorrow", false},
		{"exactly two days", 48 * time.Hour, "Due in 2d", false},
		{"sixty hours rounds up", 60 * time.Hour, "Due in 3d", false},
		{"ten days", 240 * time.Hour, "Due in 10d", false},

		{"exactly due", 0, "Overdue 1m", true},
		{"one millisecond past", -time.Millisecond, "Overdue 1m", true},
		{"ninety seconds past", -90 * time.Second, "Overdue 2m", true},
		{"just under an hour past", -(time.Hour - time.Millisecond), "Overdue 60m", true},
		{"exactly one hour past", -time.Hour, "Overdue 1h", true},
		{"one ms over an hour rounds down", -(time.Hour + time.Millisecond), "Overdue 1h", true},
		{"just under ninety minutes past", -(90*time.Minute - time.Millisecond), "Overdue 1h", true},
		{"ninety minutes past rounds up", -90 * time.Minute, "Overdue 2h", true},
		{"just under a day past", -(24*time.Hour - time.Millisecond), "Overdue 24h", true},
		{"exactly one day past", -24 * time.Hour, "Overdue 1d", true},
		{"thirty-six hours past rounds up", -36 * time.Hour, "Overdue 2d", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deadline := base.Add(tc.offset)
			got := Format(&deadline, base)
			if got == nil {
				t.Fatalf("Format returned nil for offset %v", tc.offset)
			}
			if got.Text != tc.text || got.IsOverdue != tc.overdue {
				t.Fatalf("Format(offset %v) = {%q, %v}, want {%q, %v}",
					tc.offset, got.Text, got.IsOverdue, tc.text, tc.overdue)
			}
		})
	}
}

func TestFormatIsPure(t *testing.T) {
	t.Parallel()

	deadline := base.Add(42 * time.Minute)
	first := Format(&deadline, base)
	second := Format(&deadline, base)
	if *first != *second {
		t.Fatalf("Format is not deterministic: %+v vs %+v", first, second)
	}
}

func TestNextTickDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		offset time.Duration // deadline minus now
		want   time.Duration
	}{
		{"thirty seconds out lands past the boundary", 30 * time.Second, 30*time.Second + 100*time.Millisecond},
		{"sub-minute edge", 59*time.Second + 900*time.Millisecond, 60 * time.Second},
		{"exactly one minute out", time.Minute, time.Minute},
		{"half an hour out", 30 * time.Minute, time.Minute},
		{"exactly one hour out", time.Hour, 30 * time.Minute},
		{"twelve hours out", 12 * time.Hour, 30 * time.Minute},
		{"one day out", 24 * time.Hour, time.Hour},
		{"a week out", 7 * 24 * time.Hour, time.Hour},
		{"half an hour overdue", -30 * time.Minute, time.Minute},
		{"two hours overdue", -2 * time.Hour, 30 * time.Minute},
		{"three days overdue", -72 * time.Hour, time.Hour},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deadline := base.Add(tc.offset)
			if got := NextTickDelay(deadline, base); got != tc.want {
				t.Fatalf("NextTickDelay(offset %v) = %v, want %v", tc.offset, got, tc.want)
			}
		})
	}
}

// TestNextTickDelayNeverSkipsLabel walks a simulated clock from 26 hours
// before a deadline to 26 hours after, only waking when NextTickDelay says
// the label could change, and verifies no reachable label is skipped.
func TestNextTickDelayNeverSkipsLabel(t *testing.T) {
	t.Parallel()

	deadline := base
	// Offset start by 30s so wake-ups are not aligned to the deadline's
	// minute grid, which is the common real-world case.
	now := base.Add(-26*time.Hour - 30*time.Second)
	end := base.Add(26 * time.Hour)

	seen := make(map[string]bool)
	for now.Before(end) {
		label := Format(&deadline, now)
		seen[label.Text] = true

		delay := NextTickDelay(deadline, now)
		if delay <= 0 {
			t.Fatalf("NextTickDelay returned non-positive delay %v at %v", delay, now)
		}
		now = now.Add(delay)
	}

	expected := []string{"Due tomorrow", "Due in 1h", "Due in 1m"}
	for m := 1; m <= 60; m++ {
		expected = append(expected, fmt.Sprintf("Overdue %dm", m))
	}
	for h := 1; h <= 24; h++ {
		expected = append(expected, fmt.Sprintf("Overdue %dh", h))
	}
	expected = append(expected, "Overdue 1d")

	for _, label := range expected {
		if !seen[label] {
			t.Errorf("label %q was skipped by the adaptive schedule", label)
		}
	}
}
