package repository

import (
	"github.com/taskforge/task-assignment-api/internal/models"
	"gorm.io/gorm"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindByToken finds an invitation by token
func (r *GormInvitationRepository) FindByToken(token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindLatestByEmail finds the invitation for an email with the furthest expiry
func (r *GormInvitationRepository) FindLatestByEmail(email string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.
		Where("email = ?", email).
		Order("expires_at DESC").
		First(&invitation).Error
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// Consume hard-deletes the invitation. Invitations carry no DeletedAt, so
// this removes the row outright; a concurrent second redemption deletes
// nothing and reports false.
func (r *GormInvitationRepository) Consume(token string) (bool, error) {
	result := r.db.Where("token = ?", token).Delete(&models.Invitation{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
