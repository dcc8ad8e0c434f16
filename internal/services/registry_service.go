// internal/services/registry_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/owlnest/owlnest-backend/internal/models"
	"github.com/owlnest/owlnest-backend/internal/repository"
)

var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrAmbiguousToken = errors.New("token matches multiple keys")
)

// ResolvedKey is the registry's answer for a submitted token: the key's canonical
// payload and its current status.
type ResolvedKey struct {
	Payload string
	Token   string
	Serial  string
	Status  models.KeyStatus
}

// RegistryService resolves a normalized token to its ProductKey record. The
// schema evolved across key schemes, so three lookup strategies are tried in
// order; the first definitive hit wins. More than one row at any stage is a data
// integrity fault and is never silently resolved to an arbitrary row.
type RegistryService struct {
	keys repository.KeyRepository
}

func NewRegistryService(keys repository.KeyRepository) *RegistryService {
	return &RegistryService{keys: keys}
}

func (s *RegistryService) Resolve(ctx context.Context, token string) (*ResolvedKey, error) {
	strategies := []func(context.Context, string) ([]models.ProductKey, error){
		s.keys.FindByToken,         // dedicated token column (canonical scheme)
		s.keys.FindByPayload,       // legacy rows where the payload is the token
		s.keys.FindByPayloadSuffix, // composite "serial.token" payloads
	}

	for _, find := range strategies {
		keys, err := find(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("registry lookup failed: %w", err)
		}

		switch len(keys) {
		case 0:
			continue
		case 1:
			key := keys[0]
			return &ResolvedKey{
				Payload: key.Payload,
				Token:   key.TokenSegment(),
				Serial:  key.Serial(),
				Status:  key.Status,
			}, nil
		default:
			// Registry defect: a token must identify exactly one key.
			logrus.WithField("token_suffix", suffixForLog(token)).
				Error("token matches multiple product keys")
			return nil, ErrAmbiguousToken
		}
	}

	return nil, ErrKeyNotFound
}

// suffixForLog keeps full tokens out of the logs.
func suffixForLog(token string) string {
	if len(token) <= 4 {
		return token
	}
	return token[len(token)-4:]
}
