package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskforge/task-assignment-api/internal/models"
	"github.com/taskforge/task-assignment-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CommentServiceTestSuite defines the test suite for CommentService
type CommentServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CommentService

	admin *models.User
	owner *models.User
	other *models.User
	task  *models.Task
}

// SetupTest runs before each test
func (suite *CommentServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Invitation{},
		&models.Task{},
		&models.Comment{},
	)
	suite.Require().NoError(err)

	commentRepo := repository.NewCommentRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	suite.service = NewCommentService(commentRepo, taskRepo)

	suite.admin = suite.createTestUser("admin@example.com", models.RoleAdmin)
	suite.owner = suite.createTestUser("owner@example.com", models.RoleEmployee)
	suite.other = suite.createTestUser("other@example.com", models.RoleEmployee)
	suite.task = suite.createAssignedTask(suite.owner.ID)
}

// TearDownTest runs after each test
func (suite *CommentServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CommentServiceTestSuite) createTestUser(email string, role models.UserRole) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *CommentServiceTestSuite) createAssignedTask(userID uint64) *models.Task {
	task := &models.Task{
		Name:         "Review designs",
		StartDate:    time.Now(),
		EndDate:      time.Now().Add(48 * time.Hour),
		Status:       models.TaskStatusPending,
		AssignedToID: &userID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *CommentServiceTestSuite) createTestComment(taskID, userID uint64, content string, createdAt time.Time) *models.Comment {
	comment := &models.Comment{
		TaskID:    taskID,
		UserID:    &userID,
		Content:   content,
		CreatedAt: createdAt,
	}
	suite.Require().NoError(suite.db.Create(comment).Error)
	return comment
}

func (suite *CommentServiceTestSuite) TestListComments_OrderedOldestFirst() {
	now := time.Now()
	suite.createTestComment(suite.task.ID, suite.owner.ID, "second", now.Add(-time.Hour))
	suite.createTestComment(suite.task.ID, suite.owner.ID, "third", now)
	suite.createTestComment(suite.task.ID, suite.owner.ID, "first", now.Add(-2*time.Hour))

	comments, err := suite.service.ListComments(suite.task.ID, suite.owner.ID, false)
	suite.Require().NoError(err)
	suite.Require().Len(comments, 3)

	assert.Equal(suite.T(), "first", comments[0].Content)
	assert.Equal(suite.T(), "second", comments[1].Content)
	assert.Equal(suite.T(), "third", comments[2].Content)
}

func (suite *CommentServiceTestSuite) TestListComments_NonOwnerReadsAsNotFound() {
	_, err := suite.service.ListComments(suite.task.ID, suite.other.ID, false)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *CommentServiceTestSuite) TestListComments_AdminSeesAnyTask() {
	suite.createTestComment(suite.task.ID, suite.owner.ID, "note", time.Now())

	comments, err := suite.service.ListComments(suite.task.ID, suite.admin.ID, true)
	suite.Require().NoError(err)
	assert.Len(suite.T(), comments, 1)
}

func (suite *CommentServiceTestSuite) TestCreateComment_OwnerAndAdmin() {
	comment, err := suite.service.CreateComment(suite.task.ID, suite.owner.ID, "status update", false)
	suite.Require().NoError(err)
	suite.Require().NotNil(comment.UserID)
	assert.Equal(suite.T(), suite.owner.ID, *comment.UserID)

	_, err = suite.service.CreateComment(suite.task.ID, suite.admin.ID, "looks good", true)
	suite.Require().NoError(err)

	_, err = suite.service.CreateComment(suite.task.ID, suite.other.ID, "drive-by", false)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *CommentServiceTestSuite) TestCreateComment_ContentRequired() {
	_, err := suite.service.CreateComment(suite.task.ID, suite.owner.ID, "   ", false)
	assert.ErrorIs(suite.T(), err, ErrCommentContentRequired)
}

func (suite *CommentServiceTestSuite) TestUpdateComment_AuthorOnly() {
	comment := suite.createTestComment(suite.task.ID, suite.owner.ID, "draft", time.Now())

	updated, err := suite.service.UpdateComment(comment.ID, suite.owner.ID, "final")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "final", updated.Content)

	_, err = suite.service.UpdateComment(comment.ID, suite.other.ID, "hijack")
	assert.ErrorIs(suite.T(), err, ErrCommentNotFound)

	// No admin override on edits.
	_, err = suite.service.UpdateComment(comment.ID, suite.admin.ID, "admin edit")
	assert.ErrorIs(suite.T(), err, ErrCommentNotFound)
}

func (suite *CommentServiceTestSuite) TestRemoveComment_AdminOverride() {
	comment := suite.createTestComment(suite.task.ID, suite.owner.ID, "note", time.Now())

	err := suite.service.RemoveComment(comment.ID, suite.other.ID, false)
	assert.ErrorIs(suite.T(), err, ErrCommentNotFound)

	err = suite.service.RemoveComment(comment.ID, suite.admin.ID, true)
	suite.Require().NoError(err)

	_, err = suite.service.GetComment(comment.ID, suite.admin.ID, true)
	assert.ErrorIs(suite.T(), err, ErrCommentNotFound)
}

func (suite *CommentServiceTestSuite) TestRemoveComment_AuthorCanRemoveOwn() {
	comment := suite.createTestComment(suite.task.ID, suite.owner.ID, "note", time.Now())

	suite.Require().NoError(suite.service.RemoveComment(comment.ID, suite.owner.ID, false))
}

func (suite *CommentServiceTestSuite) TestGetComment_Policies() {
	comment := suite.createTestComment(suite.task.ID, suite.owner.ID, "note", time.Now())

	_, err := suite.service.GetComment(0, suite.owner.ID, false)
	assert.ErrorIs(suite.T(), err, ErrInvalidCommentID)

	got, err := suite.service.GetComment(comment.ID, suite.owner.ID, false)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), comment.ID, got.ID)

	_, err = suite.service.GetComment(comment.ID, suite.other.ID, false)
	assert.ErrorIs(suite.T(), err, ErrCommentNotFound)

	_, err = suite.service.GetComment(comment.ID, suite.admin.ID, true)
	suite.Require().NoError(err)
}

// TestCommentServiceTestSuite runs the test suite
func TestCommentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommentServiceTestSuite))
}
