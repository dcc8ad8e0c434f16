// internal/services/verification_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlnest/owlnest-backend/internal/models"
	"github.com/owlnest/owlnest-backend/internal/repository"
)

func newVerificationFixture() (*VerificationService, *repository.MemoryActivationRepository) {
	keys := repository.NewMemoryKeyRepository(
		models.ProductKey{
			Payload: "OWL-2026A-000001.ABCD1234EFGH",
			Token:   "ABCD1234EFGH",
			Status:  models.KeyStatusActive,
		},
		models.ProductKey{
			Payload: "OWL-2026A-000002.REVOKEDTOKEN",
			Token:   "REVOKEDTOKEN",
			Status:  models.KeyStatusRevoked,
		},
	)
	activations := repository.NewMemoryActivationRepository()
	return NewVerificationService(NewRegistryService(keys), activations), activations
}

func TestVerifyValidUnactivated(t *testing.T) {
	service, activations := newVerificationFixture()

	result := service.Verify(context.Background(), "abcd1234efgh")
	assert.True(t, result.Valid)
	assert.False(t, result.Activated)
	assert.Equal(t, "OWL-2026A-000001", result.Serial)
	assert.Equal(t, "ABCD1234EFGH", result.Token)
	assert.Empty(t, result.Reason)

	// Verification is read-only: running it again yields the same answer and
	// the ledger stays empty.
	again := service.Verify(context.Background(), "abcd1234efgh")
	assert.Equal(t, result, again)
	assert.Equal(t, 0, activations.Count())
}

func TestVerifyActivatedKey(t *testing.T) {
	service, activations := newVerificationFixture()

	err := activations.Create(context.Background(), &models.Activation{
		UserID:       "user-1",
		Payload:      "OWL-2026A-000001.ABCD1234EFGH",
		DisplayToken: "12345678",
	})
	require.NoError(t, err)

	result := service.Verify(context.Background(), "ABCD1234EFGH")
	assert.True(t, result.Valid)
	assert.True(t, result.Activated)
}

func TestVerifyNeverEchoesOwner(t *testing.T) {
	service, activations := newVerificationFixture()

	err := activations.Create(context.Background(), &models.Activation{
		UserID:       "user-secret",
		Payload:      "OWL-2026A-000001.ABCD1234EFGH",
		DisplayToken: "12345678",
	})
	require.NoError(t, err)

	result := service.Verify(context.Background(), "ABCD1234EFGH")
	assert.NotContains(t, result.Serial, "user-secret")
	assert.NotContains(t, result.Token, "user-secret")
	assert.NotContains(t, result.Message, "user-secret")
}

func TestVerifyRevokedKey(t *testing.T) {
	service, _ := newVerificationFixture()

	result := service.Verify(context.Background(), "REVOKEDTOKEN")
	assert.False(t, result.Valid)
	assert.Equal(t, "revoked", result.Reason)
}

func TestVerifyUnknownToken(t *testing.T) {
	service, _ := newVerificationFixture()

	result := service.Verify(context.Background(), "UNKNOWN00000")
	assert.False(t, result.Valid)
	assert.Equal(t, "not_found", result.Reason)
}

func TestVerifyMalformedInput(t *testing.T) {
	service, _ := newVerificationFixture()

	cases := []struct {
		input  string
		reason string
	}{
		{"", "missing_token"},
		{"SHORT", "invalid_length"},
		{"ABCD-234EFGH", "invalid_format"},
	}

	for _, tc := range cases {
		result := service.Verify(context.Background(), tc.input)
		assert.False(t, result.Valid, "input %q", tc.input)
		assert.Equal(t, tc.reason, result.Reason, "input %q", tc.input)
	}
}

func TestVerifyAmbiguousToken(t *testing.T) {
	keys := repository.NewMemoryKeyRepository(
		models.ProductKey{Payload: "OWL-2026A-000001.ABCD1234EFGH", Token: "ABCD1234EFGH", Status: models.KeyStatusActive},
		models.ProductKey{Payload: "OWL-2026B-000001.ABCD1234EFGH", Token: "ABCD1234EFGH", Status: models.KeyStatusActive},
	)
	service := NewVerificationService(NewRegistryService(keys), repository.NewMemoryActivationRepository())

	result := service.Verify(context.Background(), "ABCD1234EFGH")
	assert.False(t, result.Valid)
	assert.Equal(t, "ambiguous_token", result.Reason)
}
