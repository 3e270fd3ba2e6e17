package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/task-assignment-api/internal/constants"
	"github.com/taskforge/task-assignment-api/internal/database"
	"github.com/taskforge/task-assignment-api/internal/dto"
	"github.com/taskforge/task-assignment-api/internal/middleware"
	"github.com/taskforge/task-assignment-api/internal/models"
	"github.com/taskforge/task-assignment-api/internal/repository"
	"github.com/taskforge/task-assignment-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db                *gorm.DB
	router            *gin.Engine
	authService       *services.AuthService
	invitationService *services.InvitationService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Invitation{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	authService := services.NewAuthService(userRepo)
	invitationService := services.NewInvitationService(invitationRepo, userRepo, 30)
	handler := NewAuthHandler(authService, invitationService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/auth/signup", handler.Signup)
	r.POST("/auth/signin", handler.Signin)
	r.POST("/auth/signout", middleware.RequireAuth(), handler.Signout)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:                db,
		router:            r,
		authService:       authService,
		invitationService: invitationService,
	}
}

func (env authTestEnv) postJSON(t *testing.T, url string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup_WithValidInvite(t *testing.T) {
	env := setupAuthTestEnv(t)

	invitation, err := env.invitationService.Issue("new@example.com")
	require.NoError(t, err)

	w := env.postJSON(t, "/auth/signup?token="+invitation.Token, map[string]string{
		"name":     "New Employee",
		"email":    "new@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "new@example.com", response.Email)
	require.Equal(t, models.RoleEmployee, response.Role)

	require.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")
}

func TestAuthHandler_Signup_MalformedToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/auth/signup?token=not-a-uuid", map[string]string{
		"name":     "New Employee",
		"email":    "new@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Signup_UnknownToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/auth/signup?token="+uuid.NewString(), map[string]string{
		"name":     "New Employee",
		"email":    "new@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Signup_EmailMismatch(t *testing.T) {
	env := setupAuthTestEnv(t)

	invitation, err := env.invitationService.Issue("invited@example.com")
	require.NoError(t, err)

	w := env.postJSON(t, "/auth/signup?token="+invitation.Token, map[string]string{
		"name":     "Someone Else",
		"email":    "other@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)

	// The mismatch must not burn the token; the invited address can still use it.
	w = env.postJSON(t, "/auth/signup?token="+invitation.Token, map[string]string{
		"name":     "Invited",
		"email":    "invited@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthHandler_Signup_RejectedInputKeepsToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	invitation, err := env.invitationService.Issue("new@example.com")
	require.NoError(t, err)

	// A too-short password passes gin binding but fails signup validation. The
	// rejection must happen before the token is consumed.
	w := env.postJSON(t, "/auth/signup?token="+invitation.Token, map[string]string{
		"name":     "New Employee",
		"email":    "new@example.com",
		"password": "short",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Same for a whitespace-only name.
	w = env.postJSON(t, "/auth/signup?token="+invitation.Token, map[string]string{
		"name":     "   ",
		"email":    "new@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The invite survives both rejected attempts and the retry succeeds.
	w = env.postJSON(t, "/auth/signup?token="+invitation.Token, map[string]string{
		"name":     "New Employee",
		"email":    "new@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthHandler_Signup_ReusedToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	invitation, err := env.invitationService.Issue("new@example.com")
	require.NoError(t, err)

	w := env.postJSON(t, "/auth/signup?token="+invitation.Token, map[string]string{
		"name":     "New Employee",
		"email":    "new@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// A consumed token reads exactly like one that never existed.
	w = env.postJSON(t, "/auth/signup?token="+invitation.Token, map[string]string{
		"name":     "New Employee",
		"email":    "new@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Signin(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Name:     "Existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.postJSON(t, "/auth/signin", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "existing@example.com", response.Email)

	require.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")
}

func TestAuthHandler_Signin_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Name:     "Existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.postJSON(t, "/auth/signin", map[string]string{
		"email":    "existing@example.com",
		"password": "wrongpassword",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Signin_UnknownEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/auth/signin", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Signout(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Name:     "Existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.postJSON(t, "/auth/signin", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()

	w = env.postJSON(t, "/auth/signout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Signout_Unauthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/auth/signout", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
