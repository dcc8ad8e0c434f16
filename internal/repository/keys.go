// internal/repository/keys.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/owlnest/owlnest-backend/internal/models"
)

// KeyRepository reads the product key registry. Each finder returns at most two
// rows: one row is a definitive match, two rows is enough to prove ambiguity.
type KeyRepository interface {
	FindByToken(ctx context.Context, token string) ([]models.ProductKey, error)
	FindByPayload(ctx context.Context, payload string) ([]models.ProductKey, error)
	FindByPayloadSuffix(ctx context.Context, token string) ([]models.ProductKey, error)
}

type keyRepository struct {
	db *gorm.DB
}

func NewKeyRepository(db *gorm.DB) KeyRepository {
	return &keyRepository{db: db}
}

func (r *keyRepository) FindByToken(ctx context.Context, token string) ([]models.ProductKey, error) {
	var keys []models.ProductKey
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Limit(2).
		Find(&keys).Error
	if err != nil {
		return nil, translateError(err)
	}
	return keys, nil
}

func (r *keyRepository) FindByPayload(ctx context.Context, payload string) ([]models.ProductKey, error) {
	var keys []models.ProductKey
	err := r.db.WithContext(ctx).
		Where("payload = ?", payload).
		Limit(2).
		Find(&keys).Error
	if err != nil {
		return nil, translateError(err)
	}
	return keys, nil
}

func (r *keyRepository) FindByPayloadSuffix(ctx context.Context, token string) ([]models.ProductKey, error) {
	var keys []models.ProductKey
	err := r.db.WithContext(ctx).
		Where("payload LIKE ?", "%."+token).
		Limit(2).
		Find(&keys).Error
	if err != nil {
		return nil, translateError(err)
	}
	return keys, nil
}
