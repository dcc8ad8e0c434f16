// internal/models/product_key.go
package models

import "strings"

// ProductKey is a registered license key. Keys are created by the offline batch
// generator and never change afterwards except for status.
//
// Payload is the canonical identifier. For current batches it is the composite
// "serial.token" (e.g. "OWL-2026A-000001.1A2B3C4D5E6F"); legacy rows may carry an
// opaque payload equal to the token itself.
type ProductKey struct {
	BaseModel
	Payload string    `json:"payload" gorm:"type:text;uniqueIndex;not null"`
	Token   string    `json:"token" gorm:"type:varchar(12);index;not null"`
	BatchID string    `json:"batch_id,omitempty" gorm:"type:text;index"`
	Status  KeyStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
}

// Serial returns the part of the payload before the last dot, or "" for
// single-segment payloads.
func (k *ProductKey) Serial() string {
	if dot := strings.LastIndex(k.Payload, "."); dot > 0 {
		return k.Payload[:dot]
	}
	return ""
}

// TokenSegment returns the last dot-separated segment of the payload. For composite
// payloads this equals the 12-char token.
func (k *ProductKey) TokenSegment() string {
	if dot := strings.LastIndex(k.Payload, "."); dot >= 0 {
		return k.Payload[dot+1:]
	}
	return k.Payload
}
