// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

// GenerateDisplayToken returns an 8-digit numeric code (10000000-99999999) used
// as the customer-facing activation code. Independent of the signing token by
// construction.
func GenerateDisplayToken() (string, error) {
	const (
		min  = 10000000
		span = 90000000
	)

	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", err
	}
	return big.NewInt(min + n.Int64()).String(), nil
}
