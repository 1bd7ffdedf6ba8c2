package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeMatchFound = "match_found"
	NotificationTypeMessage    = "message"
)

type Notification struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	Type      string    `gorm:"type:varchar(30);not null"`
	Title     string    `gorm:"type:varchar(100);not null"`
	Message   string    `gorm:"type:text;not null"`
	MatchID   *string   `gorm:"type:varchar(36);index"`
	IsRead    bool      `gorm:"default:false;index"`
	CreatedAt time.Time `gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
