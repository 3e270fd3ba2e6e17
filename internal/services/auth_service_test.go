package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskforge/task-assignment-api/internal/models"
	"github.com/taskforge/task-assignment-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewAuthService(repository.NewUserRepository(db)), db
}

func TestAuthService_Signup(t *testing.T) {
	svc, _ := setupAuthService(t)

	user, err := svc.Signup(SignupInput{
		Name:     "New Employee",
		Email:    "new@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// Role is forced to EMPLOYEE no matter what the caller sends, and the
	// stored credential is a verifiable bcrypt digest, never the password.
	require.Equal(t, models.RoleEmployee, user.Role)
	require.NotEqual(t, "supersecret", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")))
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Signup(SignupInput{Name: "A", Email: "dup@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Signup(SignupInput{Name: "B", Email: "dup@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Signup_ShortPassword(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Signup(SignupInput{Name: "A", Email: "a@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Signin(t *testing.T) {
	svc, _ := setupAuthService(t)

	created, err := svc.Signup(SignupInput{Name: "A", Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)

	user, err := svc.Signin(SigninInput{Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	_, err = svc.Signin(SigninInput{Email: "a@example.com", Password: "wrongpassword"})
	require.ErrorIs(t, err, ErrBadPassword)

	_, err = svc.Signin(SigninInput{Email: "nobody@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Signin_SoftDeletedUser(t *testing.T) {
	svc, db := setupAuthService(t)

	user, err := svc.Signup(SignupInput{Name: "A", Email: "a@example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	_, err = svc.Signin(SigninInput{Email: "a@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrUserNotFound)
}
