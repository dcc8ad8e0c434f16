// internal/models/order.go
package models

import "time"

// Order is a completed cart order recorded from the payment provider's webhook.
// The primary key is the provider's own order id, so webhook retries upsert
// instead of duplicating rows.
type Order struct {
	ID        string     `json:"id" gorm:"type:text;primary_key"`
	UserEmail string     `json:"user_email" gorm:"type:text;index;not null"`
	Total     *float64   `json:"total,omitempty" gorm:"type:numeric"`
	Items     JSONBArray `json:"items,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
