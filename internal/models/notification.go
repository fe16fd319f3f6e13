package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationTypeReminder marks notifications produced by the reminder sweep
const NotificationTypeReminder = "reminder"

// Notification represents an entry in a user's in-app notification feed
type Notification struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string         `gorm:"size:36;not null;index" json:"user_id"`
	Type      string         `gorm:"size:20;not null" json:"type"`
	Title     string         `gorm:"size:120;not null" json:"title"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Data      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"data"`
	Read      bool           `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

// BeforeCreate hook is called before creating a new notification
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notification"
}
