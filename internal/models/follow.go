package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow represents one account following another's public dreams
type Follow struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID string    `gorm:"size:36;not null;uniqueIndex:idx_follow_pair;index" json:"follower_id"`
	FolloweeID string    `gorm:"size:36;not null;uniqueIndex:idx_follow_pair;index" json:"followee_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook is called before creating a new follow
func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the Follow model
func (Follow) TableName() string {
	return "follow"
}
