package models

import (
	"testing"
	"time"
)

func TestReminderStateAt(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	sent := now.Add(-30 * time.Minute)

	cases := []struct {
		name   string
		action Action
		want   ReminderState
	}{
		{"no reminder", Action{}, ReminderNone},
		{"future reminder", Action{Reminder: &future}, ReminderScheduled},
		{"past reminder", Action{Reminder: &past}, ReminderDue},
		{"reminder exactly now", Action{Reminder: &now}, ReminderDue},
		{"sent is terminal", Action{Reminder: &past, ReminderSentAt: &sent}, ReminderSent},
		{"sent wins even with future reminder", Action{Reminder: &future, ReminderSentAt: &sent}, ReminderSent},
		{"sent survives cleared reminder", Action{ReminderSentAt: &sent}, ReminderSent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.action.ReminderStateAt(now); got != tc.want {
				t.Fatalf("ReminderStateAt = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestReminderEligible(t *testing.T) {
	cases := []struct {
		name   string
		action Action
		want   bool
	}{
		{"active incomplete", Action{Status: ActionActive}, true},
		{"completed", Action{Status: ActionActive, IsCompleted: true}, false},
		{"archived", Action{Status: ActionArchived}, false},
		{"archived and completed", Action{Status: ActionArchived, IsCompleted: true}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.action.ReminderEligible(); got != tc.want {
				t.Fatalf("ReminderEligible = %v, want %v", got, tc.want)
			}
		})
	}
}
