package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskforge/task-assignment-api/internal/models"
	"github.com/taskforge/task-assignment-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrAssigneeNotFound    = errors.New("user not found")
	ErrTaskNameRequired    = errors.New("name is required")
	ErrTaskNameEmpty       = errors.New("name cannot be empty")
	ErrTaskAlreadyAssigned = errors.New("task already assigned")
	ErrTaskAlreadyStarted  = errors.New("task already started")
	ErrTaskNotStartable    = errors.New("task either submitted or already started")
	ErrTaskNotSubmittable  = errors.New("task either submitted or not started")
	ErrTaskNotReviewable   = errors.New("task either not submitted or already reviewed")
)

// TaskService handles the task lifecycle. Stored states move
// UNASSIGNED -> PENDING -> IN_PROGRESS -> IN_REVIEW -> COMPLETED; every
// transition re-checks the current status at write time through a
// conditional update so two racing requests cannot both succeed.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
}

// UpdateTaskInput represents input for a partial task update
type UpdateTaskInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	AssignedToID *uint64
	Status       *models.TaskStatus
	Page         int
	PageSize     int
}

// CreateTask creates a new task. New tasks always start unassigned with no
// owner, regardless of what the caller supplies.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Name == "" {
		return nil, ErrTaskNameRequired
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      models.TaskStatusUnassigned,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns tasks matching the filter
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		AssignedToID: input.AssignedToID,
		Status:       input.Status,
		Page:         input.Page,
		PageSize:     input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with its assignee
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	return s.findTask(taskID, "AssignedTo")
}

// GetMyTask returns a task only when it is assigned to the caller. Any task
// the caller does not own reads as not found, so task existence never leaks
// to non-owners.
func (s *TaskService) GetMyTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID, "AssignedTo")
	if err != nil {
		return nil, err
	}

	if !task.IsOwnedBy(userID) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// UpdateTask applies a partial update to a task's descriptive fields
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTaskNameEmpty
		}
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.StartDate != nil {
		task.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		task.EndDate = *input.EndDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(task.ID, "AssignedTo")
}

// DeleteTask soft deletes a task
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.findTask(taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// Assign gives an unassigned task to a user and moves it to PENDING
func (s *TaskService) Assign(taskID, userID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if task.Status != models.TaskStatusUnassigned {
		return nil, ErrTaskAlreadyAssigned
	}

	rows, err := s.taskRepo.TransitionStatus(taskID, models.TaskStatusUnassigned, models.TaskStatusPending, map[string]interface{}{
		"assigned_to_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}
	if rows == 0 {
		return nil, ErrTaskAlreadyAssigned
	}

	return s.findTask(taskID, "AssignedTo")
}

// Unassign detaches the assignee and returns the task to UNASSIGNED. Only
// legal before work has started: UNASSIGNED and PENDING pass, anything later
// is rejected.
func (s *TaskService) Unassign(taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusUnassigned && task.Status != models.TaskStatusPending {
		return nil, ErrTaskAlreadyStarted
	}

	rows, err := s.taskRepo.TransitionStatus(taskID, task.Status, models.TaskStatusUnassigned, map[string]interface{}{
		"assigned_to_id": nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unassign task: %w", err)
	}
	if rows == 0 {
		return nil, ErrTaskAlreadyStarted
	}

	return s.findTask(taskID)
}

// Start moves the caller's PENDING task to IN_PROGRESS and stamps startedAt
func (s *TaskService) Start(taskID, userID uint64) (*models.Task, error) {
	task, err := s.GetMyTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusPending {
		return nil, ErrTaskNotStartable
	}

	rows, err := s.taskRepo.TransitionStatus(taskID, models.TaskStatusPending, models.TaskStatusInProgress, map[string]interface{}{
		"started_at": time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start task: %w", err)
	}
	if rows == 0 {
		return nil, ErrTaskNotStartable
	}

	return s.findTask(taskID, "AssignedTo")
}

// Submit moves the caller's IN_PROGRESS task to IN_REVIEW and stamps
// submittedAt
func (s *TaskService) Submit(taskID, userID uint64) (*models.Task, error) {
	task, err := s.GetMyTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusInProgress {
		return nil, ErrTaskNotSubmittable
	}

	rows, err := s.taskRepo.TransitionStatus(taskID, models.TaskStatusInProgress, models.TaskStatusInReview, map[string]interface{}{
		"submitted_at": time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit task: %w", err)
	}
	if rows == 0 {
		return nil, ErrTaskNotSubmittable
	}

	return s.findTask(taskID, "AssignedTo")
}

// Validate accepts a submitted task, moving IN_REVIEW to COMPLETED and
// stamping completedAt
func (s *TaskService) Validate(taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusInReview {
		return nil, ErrTaskNotReviewable
	}

	rows, err := s.taskRepo.TransitionStatus(taskID, models.TaskStatusInReview, models.TaskStatusCompleted, map[string]interface{}{
		"completed_at": time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate task: %w", err)
	}
	if rows == 0 {
		return nil, ErrTaskNotReviewable
	}

	return s.findTask(taskID, "AssignedTo")
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
