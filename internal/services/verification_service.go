// internal/services/verification_service.go
package services

import (
	"context"
	"errors"

	"github.com/owlnest/owlnest-backend/internal/keycodec"
	"github.com/owlnest/owlnest-backend/internal/models"
	"github.com/owlnest/owlnest-backend/internal/repository"
)

// VerifyResult is the public answer for a token check. It never carries the
// owning user's identity: verification is anonymous by design, it backs the
// "scan to verify" landing page.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Activated bool   `json:"activated"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
	Serial    string `json:"serial,omitempty"`
	Token     string `json:"token,omitempty"`
}

// VerificationService answers "is this token valid, and is it already
// activated?" without creating or modifying any record.
type VerificationService struct {
	registry    *RegistryService
	activations repository.ActivationRepository
}

func NewVerificationService(registry *RegistryService, activations repository.ActivationRepository) *VerificationService {
	return &VerificationService{
		registry:    registry,
		activations: activations,
	}
}

func (s *VerificationService) Verify(ctx context.Context, rawToken string) *VerifyResult {
	token, err := keycodec.Normalize(rawToken)
	if err != nil {
		return &VerifyResult{
			Valid:   false,
			Reason:  err.Error(),
			Message: normalizeMessage(err),
		}
	}

	key, err := s.registry.Resolve(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, ErrKeyNotFound):
			return &VerifyResult{Valid: false, Reason: "not_found", Message: "Token not found"}
		case errors.Is(err, ErrAmbiguousToken):
			return &VerifyResult{Valid: false, Reason: string(CodeAmbiguousToken), Message: "Token matches multiple records"}
		default:
			return &VerifyResult{Valid: false, Reason: string(CodeDBError), Message: "Lookup failed"}
		}
	}

	if key.Status != models.KeyStatusActive {
		return &VerifyResult{
			Valid:   false,
			Reason:  string(CodeRevoked),
			Message: "Token is not active or has been revoked",
		}
	}

	activation, err := s.activations.FindByPayload(ctx, key.Payload)
	if err != nil {
		return &VerifyResult{Valid: false, Reason: string(CodeDBError), Message: "Lookup failed"}
	}

	return &VerifyResult{
		Valid:     true,
		Activated: activation != nil,
		Serial:    key.Serial,
		Token:     key.Token,
	}
}
