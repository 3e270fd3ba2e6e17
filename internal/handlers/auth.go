package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskforge/task-assignment-api/internal/constants"
	"github.com/taskforge/task-assignment-api/internal/dto"
	apierrors "github.com/taskforge/task-assignment-api/internal/errors"
	"github.com/taskforge/task-assignment-api/internal/models"
	"github.com/taskforge/task-assignment-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService       *services.AuthService
	invitationService *services.InvitationService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, invitationService *services.InvitationService) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		invitationService: invitationService,
	}
}

// Signup registers a new user against a valid invitation token. The token
// arrives as a query parameter and is consumed before the user is created.
func (h *AuthHandler) Signup(c *gin.Context) {
	token := c.Query("token")
	if _, err := uuid.Parse(token); err != nil {
		apierrors.BadRequest(c, "Invalid invitation token")
		return
	}

	type SignupRequest struct {
		Name      string     `json:"name" binding:"required"`
		Email     string     `json:"email" binding:"required,email"`
		Password  string     `json:"password" binding:"required"`
		BirthDate *time.Time `json:"birth_date"`
		ImagePath string     `json:"image_path"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.SignupInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: req.BirthDate,
		ImagePath: req.ImagePath,
	}

	// Validate before redeeming: consuming the token deletes it, so a request
	// that is going to be rejected must not get that far.
	if err := h.authService.ValidateSignup(input); err != nil {
		respondAuthError(c, err)
		return
	}

	if err := h.invitationService.Redeem(token, req.Email); err != nil {
		respondInviteError(c, err)
		return
	}

	user, err := h.authService.Signup(input)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	// Fresh signups always enter the session as EMPLOYEE; the role column is
	// what counts on later signins.
	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, user.ID)
	session.Set(constants.SessionKeyRole, string(models.RoleEmployee))
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Signin authenticates a user and initializes the session.
func (h *AuthHandler) Signin(c *gin.Context) {
	type SigninRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signin(services.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, user.ID)
	session.Set(constants.SessionKeyRole, string(user.Role))
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Signout removes the authentication session.
func (h *AuthHandler) Signout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to sign out")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out successfully",
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrBadPassword):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

func respondInviteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInviteNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInviteEmailMismatch):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInviteOutstanding),
		errors.Is(err, services.ErrEmailRegistered):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
