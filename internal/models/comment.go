package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	TaskID    uint64         `gorm:"index;not null" json:"task_id"`
	UserID    *uint64        `gorm:"index" json:"user_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations. UserID stays behind as the ownership record even after the
	// author is soft-deleted.
	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsAuthoredBy reports whether the comment was written by the given user.
// Ownership is fixed at creation time and never re-derived from the session.
func (c *Comment) IsAuthoredBy(userID uint64) bool {
	return c.UserID != nil && *c.UserID == userID
}
