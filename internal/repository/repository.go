package repository

import (
	"github.com/taskforge/task-assignment-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a non-deleted user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a non-deleted user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with pagination
	List(page, pageSize int) ([]models.User, int64, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete soft deletes a user
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	AssignedToID *uint64
	Status       *models.TaskStatus
	Page         int
	PageSize     int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// TransitionStatus moves a task from one status to another, applying the
	// extra column values, but only if the task still holds the expected
	// status. Returns the number of rows changed: 0 means another request
	// already moved the task and the caller lost the race.
	TransitionStatus(taskID uint64, from, to models.TaskStatus, updates map[string]interface{}) (int64, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with its author preloaded
	FindByID(id uint64) (*models.Comment, error)

	// ListByTaskID lists a task's comments ordered by creation time ascending
	ListByTaskID(taskID uint64) ([]models.Comment, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// Delete soft deletes a comment
	Delete(id uint64) error
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(invitation *models.Invitation) error

	// FindByToken finds an invitation by token
	FindByToken(token string) (*models.Invitation, error)

	// FindLatestByEmail finds the invitation for an email with the furthest
	// expiry
	FindLatestByEmail(email string) (*models.Invitation, error)

	// Consume hard-deletes the invitation by token and reports whether a row
	// was removed. The delete is the single-use guarantee: of two concurrent
	// redemptions only one observes true.
	Consume(token string) (bool, error)
}
