// internal/models/activation.go
package models

import "time"

// Activation binds a ProductKey to the user who redeemed it. The unique index on
// Payload is the authoritative guard against double activation; DisplayToken is a
// short code safe to show in the member UI and never the signing payload.
type Activation struct {
	BaseModel
	UserID       string    `json:"user_id" gorm:"type:text;not null;index"`
	Payload      string    `json:"payload" gorm:"type:text;uniqueIndex:idx_activations_payload;not null"`
	DisplayToken string    `json:"display_token" gorm:"type:varchar(16);uniqueIndex:idx_activations_display_token;not null"`
	ActivatedAt  time.Time `json:"activated_at" gorm:"not null"`
}
