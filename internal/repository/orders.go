// internal/repository/orders.go
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/owlnest/owlnest-backend/internal/models"
)

// OrderRepository stores webhook-recorded orders.
type OrderRepository interface {
	// Upsert inserts the order or, when the provider retries a delivery, updates
	// the existing row keyed by the provider order id.
	Upsert(ctx context.Context, order *models.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Upsert(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_email", "total", "items", "updated_at"}),
		}).
		Create(order).Error
	return translateError(err)
}
