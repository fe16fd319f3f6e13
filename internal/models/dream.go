package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DreamStatus represents the lifecycle state of a dream
type DreamStatus string

const (
	DreamActive   DreamStatus = "active"
	DreamArchived DreamStatus = "archived"
)

// Dream represents a long-term goal a user is working towards
type Dream struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	UserID      string         `gorm:"size:36;not null;index" json:"user_id"`
	Title       string         `gorm:"size:120;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      DreamStatus    `gorm:"size:10;not null;default:active" json:"status"`
	CoverURL    string         `gorm:"size:512" json:"cover_url"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Actions []Action `gorm:"foreignKey:DreamID" json:"actions,omitempty"`
}

// BeforeCreate hook is called before creating a new dream
func (d *Dream) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = DreamActive
	}
	return nil
}

// IsArchived reports whether the dream is archived
func (d *Dream) IsArchived() bool {
	return d.Status == DreamArchived
}

// TableName specifies the table name for the Dream model
func (Dream) TableName() string {
	return "dream"
}

// CreateDreamRequest represents the data needed to create a new dream
type CreateDreamRequest struct {
	Title       string `json:"title" binding:"required,max=120"`
	Description string `json:"description"`
}

// UpdateDreamRequest represents an update to an existing dream
type UpdateDreamRequest struct {
	Title       *string      `json:"title" binding:"omitempty,max=120"`
	Description *string      `json:"description"`
	Status      *DreamStatus `json:"status" binding:"omitempty,oneof=active archived"`
}
