package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/task-assignment-api/internal/models"
	"github.com/taskforge/task-assignment-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInviteOutstanding   = errors.New("a valid invite already exists for this email")
	ErrEmailRegistered     = errors.New("this email is already registered")
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteEmailMismatch = errors.New("invalid email")
)

// InvitationService issues and redeems single-use signup tokens. An expired
// token is reported exactly like a missing one, so callers cannot probe
// whether an invitation ever existed.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	userRepo       repository.UserRepository
	ttl            time.Duration
}

// NewInvitationService creates a new InvitationService. ttlMinutes comes
// from configuration; zero means invitations expire at issuance.
func NewInvitationService(invitationRepo repository.InvitationRepository, userRepo repository.UserRepository, ttlMinutes int) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		ttl:            time.Duration(ttlMinutes) * time.Minute,
	}
}

// Issue creates an invitation for the email. Rejected when the most recent
// invitation for that email has not expired yet, or when a registered user
// already owns the email.
func (s *InvitationService) Issue(email string) (*models.Invitation, error) {
	latest, err := s.invitationRepo.FindLatestByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check past invites: %w", err)
	}
	if latest != nil && latest.ExpiresAt.After(time.Now()) {
		return nil, ErrInviteOutstanding
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	invitation := &models.Invitation{
		Token:     uuid.NewString(),
		Email:     email,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return invitation, nil
}

// Redeem consumes the token for the given email. The token row is deleted as
// part of redemption; callers may treat the invitation as consumed only when
// Redeem returns nil.
func (s *InvitationService) Redeem(token, email string) error {
	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("failed to find invitation: %w", err)
	}

	if email != invitation.Email {
		return ErrInviteEmailMismatch
	}

	if !time.Now().Before(invitation.ExpiresAt) {
		return ErrInviteNotFound
	}

	consumed, err := s.invitationRepo.Consume(token)
	if err != nil {
		return fmt.Errorf("failed to consume invitation: %w", err)
	}
	if !consumed {
		// Lost a redemption race: someone else deleted the token first.
		return ErrInviteNotFound
	}

	return nil
}
