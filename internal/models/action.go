package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionStatus represents the lifecycle state of an action
type ActionStatus string

const (
	ActionActive   ActionStatus = "active"
	ActionArchived ActionStatus = "archived"
)

// ReminderState describes where an action's reminder sits in its lifecycle.
// The sent state is terminal: once reminder_sent_at is written it is never
// cleared or overwritten, even if the reminder time changes afterwards.
type ReminderState string

const (
	ReminderNone      ReminderState = "none"
	ReminderScheduled ReminderState = "scheduled"
	ReminderDue       ReminderState = "due"
	ReminderSent      ReminderState = "sent"
)

// Action represents a concrete step towards a dream, optionally with a reminder
type Action struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	DreamID        string         `gorm:"size:36;not null;index" json:"dream_id"`
	UserID         string         `gorm:"size:36;not null;index" json:"user_id"`
	Text           string         `gorm:"size:255;not null" json:"text"`
	Reminder       *time.Time     `gorm:"index" json:"reminder,omitempty"`
	ReminderSentAt *time.Time     `json:"reminder_sent_at,omitempty"`
	IsCompleted    bool           `gorm:"not null;default:false" json:"is_completed"`
	Status         ActionStatus   `gorm:"size:10;not null;default:active" json:"status"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook is called before creating a new action
func (a *Action) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = ActionActive
	}
	return nil
}

// ReminderStateAt returns the reminder lifecycle state as of now
func (a *Action) ReminderStateAt(now time.Time) ReminderState {
	if a.ReminderSentAt != nil {
		return ReminderSent
	}
	if a.Reminder == nil {
		return ReminderNone
	}
	if a.Reminder.After(now) {
		return ReminderScheduled
	}
	return ReminderDue
}

// ReminderEligible reports whether the action can still deliver a reminder.
// Completed and archived actions keep their timestamps but go inert.
func (a *Action) ReminderEligible() bool {
	return !a.IsCompleted && a.Status != ActionArchived
}

// TableName specifies the table name for the Action model
func (Action) TableName() string {
	return "action"
}

// CreateActionRequest represents the data needed to create a new action
type CreateActionRequest struct {
	DreamID  string     `json:"dream_id" binding:"required,uuid"`
	Text     string     `json:"text" binding:"required,max=255"`
	Reminder *time.Time `json:"reminder"`
}

// UpdateActionRequest represents an update to an existing action.
// Reminder uses a separate clear flag so "absent" and "remove" stay distinct.
type UpdateActionRequest struct {
	Text          *string       `json:"text" binding:"omitempty,max=255"`
	Reminder      *time.Time    `json:"reminder"`
	ClearReminder bool          `json:"clear_reminder"`
	IsCompleted   *bool         `json:"is_completed"`
	Status        *ActionStatus `json:"status" binding:"omitempty,oneof=active archived"`
}
