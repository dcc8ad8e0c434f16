// internal/services/identity_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/owlnest/owlnest-backend/internal/config"
)

// ErrUnauthorized is the only failure the identity gate ever reports. Expired,
// malformed and revoked credentials are indistinguishable to the caller so the
// response leaks nothing about why a credential was rejected.
var ErrUnauthorized = errors.New("unauthorized")

// IdentityVerifier resolves a bearer credential to a stable user identifier.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (string, error)
}

// NewIdentityVerifier builds the verifier selected by AUTH_MODE.
func NewIdentityVerifier(cfg config.AuthConfig) IdentityVerifier {
	if cfg.Mode == "jwt" {
		return &jwtVerifier{secret: []byte(cfg.SecretKey)}
	}
	return &providerVerifier{
		baseURL: strings.TrimRight(cfg.ProviderURL, "/"),
		apiKey:  cfg.ProviderKey,
		client:  &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

// providerVerifier asks the hosted auth provider who the credential belongs to.
type providerVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func (v *providerVerifier) Verify(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		return "", ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", ErrUnauthorized
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("apikey", v.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return "", ErrUnauthorized
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrUnauthorized
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil || user.ID == "" {
		return "", ErrUnauthorized
	}

	return user.ID, nil
}

// jwtVerifier validates HS256 tokens locally for self-hosted deployments.
type jwtVerifier struct {
	secret []byte
}

func (v *jwtVerifier) Verify(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		return "", ErrUnauthorized
	}

	token, err := jwt.ParseWithClaims(credential, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrUnauthorized
	}

	return claims.Subject, nil
}
