package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JournalEntry represents a dated reflection, optionally linked to a dream
type JournalEntry struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    string         `gorm:"size:36;not null;index" json:"user_id"`
	DreamID   *string        `gorm:"size:36;index" json:"dream_id,omitempty"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Mood      string         `gorm:"size:20" json:"mood"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook is called before creating a new journal entry
func (j *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the JournalEntry model
func (JournalEntry) TableName() string {
	return "journal_entry"
}

// CreateJournalEntryRequest represents the data needed to create an entry
type CreateJournalEntryRequest struct {
	DreamID *string `json:"dream_id" binding:"omitempty,uuid"`
	Body    string  `json:"body" binding:"required"`
	Mood    string  `json:"mood" binding:"omitempty,max=20"`
}
