// internal/repository/activations.go
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/owlnest/owlnest-backend/internal/models"
)

// ActivationRepository stores the activation ledger.
type ActivationRepository interface {
	// FindByPayload returns the activation for a payload, or nil when none exists.
	FindByPayload(ctx context.Context, payload string) (*models.Activation, error)
	// Create inserts an activation. A unique-constraint violation is returned as
	// *DuplicateError with the violated constraint's name.
	Create(ctx context.Context, activation *models.Activation) error
}

type activationRepository struct {
	db *gorm.DB
}

func NewActivationRepository(db *gorm.DB) ActivationRepository {
	return &activationRepository{db: db}
}

func (r *activationRepository) FindByPayload(ctx context.Context, payload string) (*models.Activation, error) {
	var activation models.Activation
	err := r.db.WithContext(ctx).
		Where("payload = ?", payload).
		First(&activation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateError(err)
	}
	return &activation, nil
}

func (r *activationRepository) Create(ctx context.Context, activation *models.Activation) error {
	return translateError(r.db.WithContext(ctx).Create(activation).Error)
}
