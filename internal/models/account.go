package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents a user account in the system
type Account struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	GoogleID       string `gorm:"uniqueIndex;size:128;not null" json:"-"`
	Username       string `gorm:"uniqueIndex;size:30;not null" json:"username" binding:"required,alphanum"`
	Email          string `gorm:"uniqueIndex;size:255;not null" json:"email" binding:"required,email"`
	AvatarURL      string `gorm:"size:512" json:"avatar_url"`
	WhatsAppNumber string `gorm:"size:20" json:"whatsapp_number"`

	// Per-channel reminder delivery opt-ins. The in-app feed always gets a row.
	EmailReminders    bool `gorm:"not null;default:true" json:"email_reminders"`
	WhatsAppReminders bool `gorm:"not null;default:false" json:"whatsapp_reminders"`

	LastLogin time.Time      `gorm:"not null" json:"last_login"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Dreams []Dream `gorm:"foreignKey:UserID" json:"dreams,omitempty"`
}

// BeforeCreate hook is called before creating a new account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.LastLogin.IsZero() {
		a.LastLogin = now
	}
	return nil
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "account"
}

// CreateProfileRequest represents the data needed to finish account setup
type CreateProfileRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=30"`
}

// UpdateAccountRequest represents updatable account settings
type UpdateAccountRequest struct {
	WhatsAppNumber    *string `json:"whatsapp_number" binding:"omitempty,max=20"`
	EmailReminders    *bool   `json:"email_reminders"`
	WhatsAppReminders *bool   `json:"whatsapp_reminders"`
}
