// internal/handlers/activation_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlnest/owlnest-backend/internal/middleware"
	"github.com/owlnest/owlnest-backend/internal/models"
	"github.com/owlnest/owlnest-backend/internal/repository"
	"github.com/owlnest/owlnest-backend/internal/services"
)

type stubVerifier struct {
	userID string
}

func (v *stubVerifier) Verify(ctx context.Context, credential string) (string, error) {
	if credential != "valid-credential" {
		return "", services.ErrUnauthorized
	}
	return v.userID, nil
}

func newActivationRouter() (*gin.Engine, *repository.MemoryActivationRepository) {
	gin.SetMode(gin.TestMode)

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
	service := services.NewActivationService(
		services.NewRegistryService(keys),
		activations,
		services.DisplayTokenRandom,
	)
	handler := NewActivationHandler(service)

	r := gin.New()
	keysGroup := r.Group("/v1/keys")
	keysGroup.Use(middleware.IdentityGate(&stubVerifier{userID: "user-1"}))
	keysGroup.POST("/activate", handler.Activate)
	return r, activations
}

func postActivate(r *gin.Engine, body map[string]interface{}, authHeader string) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", "/v1/keys/activate", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestActivateEndpointSuccess(t *testing.T) {
	r, activations := newActivationRouter()

	w := postActivate(r, map[string]interface{}{"token": "ABCD1234EFGH"}, "Bearer valid-credential")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
	assert.Equal(t, "ABCD1234EFGH", response["token"])
	assert.Equal(t, "OWL-2026A-000001.ABCD1234EFGH", response["payload"])
	assert.NotEmpty(t, response["display_token"])
	assert.Equal(t, 1, activations.Count())
}

func TestActivateEndpointLegacyKeyAlias(t *testing.T) {
	r, _ := newActivationRouter()

	w := postActivate(r, map[string]interface{}{"key": "ABCD1234EFGH"}, "Bearer valid-credential")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
}

func TestActivateEndpointUnauthorized(t *testing.T) {
	r, activations := newActivationRouter()

	// Missing header, malformed header and rejected credential all produce the
	// same body; HTTP status stays 200 for uniform client handling.
	for _, header := range []string{"", "Token abc", "Bearer bad-credential"} {
		w := postActivate(r, map[string]interface{}{"token": "ABCD1234EFGH"}, header)
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response["success"].(bool), "header %q", header)
		assert.Equal(t, "unauthorized", response["error"], "header %q", header)
	}
	assert.Equal(t, 0, activations.Count())
}

func TestActivateEndpointErrorTaxonomy(t *testing.T) {
	r, _ := newActivationRouter()

	cases := []struct {
		body map[string]interface{}
		want string
	}{
		{map[string]interface{}{}, "invalid_code"},
		{map[string]interface{}{"token": "nope"}, "invalid_code"},
		{map[string]interface{}{"token": "UNKNOWN00000"}, "invalid_code"},
		{map[string]interface{}{"token": "REVOKEDTOKEN"}, "revoked"},
	}

	for _, tc := range cases {
		w := postActivate(r, tc.body, "Bearer valid-credential")
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response["success"].(bool))
		assert.Equal(t, tc.want, response["error"])
	}
}

func TestActivateEndpointDoubleSubmit(t *testing.T) {
	r, activations := newActivationRouter()

	w := postActivate(r, map[string]interface{}{"token": "ABCD1234EFGH"}, "Bearer valid-credential")
	assert.Equal(t, http.StatusOK, w.Code)

	w = postActivate(r, map[string]interface{}{"token": "ABCD1234EFGH"}, "Bearer valid-credential")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response["success"].(bool))
	assert.Equal(t, "already_activated", response["error"])
	assert.Equal(t, 1, activations.Count())
}
