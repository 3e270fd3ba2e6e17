package dto

import (
	"time"

	"github.com/taskforge/task-assignment-api/internal/models"
)

// Derived display states. These are computed from the task's date window at
// conversion time and never stored.
const (
	DerivedStatusUpcoming = "UPCOMING"
	DerivedStatusOverdue  = "OVERDUE"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64            `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description"`
	Status        models.TaskStatus `json:"status"`
	DerivedStatus string            `json:"derived_status,omitempty"`
	StartDate     time.Time         `json:"start_date"`
	EndDate       time.Time         `json:"end_date"`
	StartedAt     *time.Time        `json:"started_at"`
	SubmittedAt   *time.Time        `json:"submitted_at"`
	CompletedAt   *time.Time        `json:"completed_at"`
	AssignedTo    *UserDTO          `json:"assigned_to,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// DeriveStatus computes the presentation-only state of a task at the given
// moment: UPCOMING before the start date, OVERDUE past the end date while
// not completed, otherwise empty.
func DeriveStatus(task models.Task, now time.Time) string {
	if task.Status == models.TaskStatusCompleted {
		return ""
	}
	if now.Before(task.StartDate) {
		return DerivedStatusUpcoming
	}
	if now.After(task.EndDate) {
		return DerivedStatusOverdue
	}
	return ""
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:            task.ID,
		Name:          task.Name,
		Description:   task.Description,
		Status:        task.Status,
		DerivedStatus: DeriveStatus(task, time.Now()),
		StartDate:     task.StartDate,
		EndDate:       task.EndDate,
		StartedAt:     task.StartedAt,
		SubmittedAt:   task.SubmittedAt,
		CompletedAt:   task.CompletedAt,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.AssignedTo != nil && task.AssignedTo.ID != 0 {
		assignee := ToUserDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
