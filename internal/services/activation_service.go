// internal/services/activation_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/owlnest/owlnest-backend/internal/keycodec"
	"github.com/owlnest/owlnest-backend/internal/models"
	"github.com/owlnest/owlnest-backend/internal/repository"
	"github.com/owlnest/owlnest-backend/internal/utils"
)

// displayTokenRetries bounds the retry loop for random display-token collisions.
const displayTokenRetries = 10

// DisplayTokenMode selects how the display token is derived. The mode is fixed
// per deployment and never mixed per row.
type DisplayTokenMode string

const (
	// DisplayTokenRandom issues an independent 8-digit code, retried on collision.
	DisplayTokenRandom DisplayTokenMode = "random"
	// DisplayTokenMasked redacts the verified token to "********" + last 4.
	DisplayTokenMasked DisplayTokenMode = "masked"
)

type ActivationResult struct {
	Token        string
	Payload      string
	DisplayToken string
	Activation   *models.Activation
}

// ActivationService transitions a ProductKey from unclaimed to claimed, exactly
// once. The ledger's unique constraint on payload is the true serialization
// point: the pre-check is a fast path, the constraint decides races.
type ActivationService struct {
	registry    *RegistryService
	activations repository.ActivationRepository
	mode        DisplayTokenMode
}

func NewActivationService(registry *RegistryService, activations repository.ActivationRepository, mode DisplayTokenMode) *ActivationService {
	if mode == "" {
		mode = DisplayTokenRandom
	}
	return &ActivationService{
		registry:    registry,
		activations: activations,
		mode:        mode,
	}
}

func (s *ActivationService) Activate(ctx context.Context, userID, rawToken string) (*ActivationResult, *ServiceError) {
	token, err := keycodec.Normalize(rawToken)
	if err != nil {
		return nil, NewServiceError(CodeInvalidCode, normalizeMessage(err))
	}

	key, err := s.registry.Resolve(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, ErrKeyNotFound):
			return nil, NewServiceError(CodeInvalidCode, "Token not found")
		case errors.Is(err, ErrAmbiguousToken):
			return nil, NewServiceError(CodeAmbiguousToken, "Token matches multiple records")
		default:
			return nil, WrapServiceError(CodeDBError, "Registry lookup failed", err)
		}
	}

	if key.Status != models.KeyStatusActive {
		return nil, NewServiceError(CodeRevoked, "Token is not active or has been revoked")
	}

	// Fast path for the common double-submit; the unique constraint below covers
	// the race this check cannot.
	existing, err := s.activations.FindByPayload(ctx, key.Payload)
	if err != nil {
		return nil, WrapServiceError(CodeDBError, "Activation lookup failed", err)
	}
	if existing != nil {
		return nil, NewServiceError(CodeAlreadyActivated, "Token has already been activated")
	}

	return s.insert(ctx, userID, token, key)
}

func (s *ActivationService) insert(ctx context.Context, userID, token string, key *ResolvedKey) (*ActivationResult, *ServiceError) {
	var lastErr error

	for attempt := 0; attempt < displayTokenRetries; attempt++ {
		displayToken, err := s.deriveDisplayToken(token)
		if err != nil {
			return nil, WrapServiceError(CodeDBError, "Failed to derive display token", err)
		}

		activation := &models.Activation{
			UserID:       userID,
			Payload:      key.Payload,
			DisplayToken: displayToken,
			ActivatedAt:  time.Now().UTC(),
		}

		err = s.activations.Create(ctx, activation)
		if err == nil {
			return &ActivationResult{
				Token:        token,
				Payload:      key.Payload,
				DisplayToken: displayToken,
				Activation:   activation,
			}, nil
		}

		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			if strings.Contains(dup.Constraint, "payload") {
				// Lost the race against a concurrent activation of the same key.
				return nil, NewServiceError(CodeAlreadyActivated, "Token has already been activated")
			}
			if s.mode == DisplayTokenRandom {
				// Display-token collision; a fresh random code usually resolves it.
				lastErr = err
				continue
			}
			// Masked tokens are deterministic, retrying cannot help.
			return nil, WrapServiceError(CodeDBError, "Display token collision", err)
		}

		return nil, WrapServiceError(CodeDBError, "Failed to record activation", err)
	}

	logrus.WithError(lastErr).Error("display token retries exhausted")
	return nil, WrapServiceError(CodeDBError, "Failed to issue display token", lastErr)
}

func (s *ActivationService) deriveDisplayToken(token string) (string, error) {
	switch s.mode {
	case DisplayTokenMasked:
		return keycodec.Mask(token), nil
	default:
		return utils.GenerateDisplayToken()
	}
}

func normalizeMessage(err error) string {
	switch {
	case errors.Is(err, keycodec.ErrMissingToken):
		return "Missing token"
	case errors.Is(err, keycodec.ErrInvalidLength):
		return "Token must be 12 characters"
	case errors.Is(err, keycodec.ErrInvalidFormat):
		return "Token format invalid"
	default:
		return "Invalid token"
	}
}
