// internal/handlers/webhook_test.go
package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owlnest/owlnest-backend/internal/config"
	"github.com/owlnest/owlnest-backend/internal/repository"
	"github.com/owlnest/owlnest-backend/internal/services"
)

func newWebhookRouter(t *testing.T) (*gin.Engine, *repository.MemoryOrderRepository) {
	gin.SetMode(gin.TestMode)

	// Provider request-validation stub: only "good-token" validates.
	validation := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/requestvalidation/good-token" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(validation.Close)

	orders := repository.NewMemoryOrderRepository()
	service := services.NewOrderService(orders, config.WebhookConfig{
		SecretAPIKey:  "secret-api-key",
		ValidationURL: validation.URL + "/api/requestvalidation",
		Timeout:       5,
	})
	handler := NewWebhookHandler(service)

	r := gin.New()
	r.POST("/v1/webhooks/orders", handler.HandleOrderEvent)
	return r, orders
}

func postWebhook(r *gin.Engine, body, requestToken string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/v1/webhooks/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if requestToken != "" {
		req.Header.Set("X-Snipcart-RequestToken", requestToken)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookRecordsCompletedOrder(t *testing.T) {
	r, orders := newWebhookRouter(t)

	body := `{
		"eventName": "order.completed",
		"content": {"token": "order-abc", "email": "buyer@example.com", "grandTotal": 42}
	}`

	w := postWebhook(r, body, "good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, orders.Get("order-abc"))
}

func TestWebhookRejectsUnvalidatedRequest(t *testing.T) {
	r, orders := newWebhookRouter(t)

	body := `{"eventName": "order.completed", "content": {"token": "order-abc", "email": "a@b.c"}}`

	for _, token := range []string{"", "forged-token"} {
		w := postWebhook(r, body, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "token %q", token)
	}
	assert.Equal(t, 0, orders.Count())
}

func TestWebhookBadPayloads(t *testing.T) {
	r, orders := newWebhookRouter(t)

	w := postWebhook(r, `not json`, "good-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postWebhook(r, `{"content": {}}`, "good-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, orders.Count())
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	r, orders := newWebhookRouter(t)

	w := postWebhook(r, `{"eventName": "order.refunded", "content": {"token": "x", "email": "a@b.c"}}`, "good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ignored")
	assert.Equal(t, 0, orders.Count())
}
