package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

// Stored lifecycle states. UPCOMING and OVERDUE are derived from the task's
// date window at read time and are never persisted.
const (
	TaskStatusUnassigned TaskStatus = "UNASSIGNED"
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  *string        `gorm:"type:text" json:"description"`
	StartDate    time.Time      `gorm:"not null" json:"start_date"`
	EndDate      time.Time      `gorm:"index;not null" json:"end_date"`
	StartedAt    *time.Time     `json:"started_at"`
	SubmittedAt  *time.Time     `json:"submitted_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
	Status       TaskStatus     `gorm:"type:varchar(20);index;not null;default:'UNASSIGNED'" json:"status"`
	AssignedToID *uint64        `gorm:"index" json:"assigned_to_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedTo *User     `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Comments   []Comment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}

// IsOwnedBy reports whether the task is assigned to the given user.
// Unassigned tasks are owned by nobody.
func (t *Task) IsOwnedBy(userID uint64) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}
