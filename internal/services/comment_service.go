package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskforge/task-assignment-api/internal/models"
	"github.com/taskforge/task-assignment-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound        = errors.New("comment not found")
	ErrCommentContentRequired = errors.New("content is required")
	ErrInvalidCommentID       = errors.New("invalid comment id")
)

// CommentService handles threaded notes on tasks. Every ownership failure is
// reported as not-found so a caller can never distinguish "comment does not
// exist" from "comment is not yours".
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
	}
}

// ListComments lists a task's comments oldest first. Admins see any task's
// comments; everyone else must own the task.
func (s *CommentService) ListComments(taskID, callerID uint64, isAdmin bool) ([]models.Comment, error) {
	if _, err := s.visibleTask(taskID, callerID, isAdmin); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTaskID(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// CreateComment attaches a new comment to a task the caller can see
func (s *CommentService) CreateComment(taskID, authorID uint64, content string, isAdmin bool) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrCommentContentRequired
	}

	if _, err := s.visibleTask(taskID, authorID, isAdmin); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		TaskID:  taskID,
		UserID:  &authorID,
		Content: content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.findComment(comment.ID)
}

// UpdateComment edits a comment's content. Author-only; admins get no
// override on edits.
func (s *CommentService) UpdateComment(commentID, callerID uint64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrCommentContentRequired
	}

	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}

	if !comment.IsAuthoredBy(callerID) {
		return nil, ErrCommentNotFound
	}

	comment.Content = content
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// RemoveComment soft deletes a comment. Admins may delete any comment,
// everyone else only their own.
func (s *CommentService) RemoveComment(commentID, callerID uint64, isAdmin bool) error {
	comment, err := s.findComment(commentID)
	if err != nil {
		return err
	}

	if !isAdmin && !comment.IsAuthoredBy(callerID) {
		return ErrCommentNotFound
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// GetComment returns a single comment, author-only unless the caller is an
// admin
func (s *CommentService) GetComment(commentID, callerID uint64, isAdmin bool) (*models.Comment, error) {
	if commentID == 0 {
		return nil, ErrInvalidCommentID
	}

	comment, err := s.findComment(commentID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && !comment.IsAuthoredBy(callerID) {
		return nil, ErrCommentNotFound
	}

	return comment, nil
}

// visibleTask resolves the task through the same ownership rule as the task
// endpoints: admins see everything, others only what is assigned to them.
func (s *CommentService) visibleTask(taskID, callerID uint64, isAdmin bool) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !isAdmin && !task.IsOwnedBy(callerID) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func (s *CommentService) findComment(commentID uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}
