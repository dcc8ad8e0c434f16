// internal/services/order_service.go
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/owlnest/owlnest-backend/internal/config"
	"github.com/owlnest/owlnest-backend/internal/models"
	"github.com/owlnest/owlnest-backend/internal/repository"
)

const eventOrderCompleted = "order.completed"

// WebhookEvent is the cart provider's webhook envelope.
type WebhookEvent struct {
	EventName string                 `json:"eventName" validate:"required"`
	Content   map[string]interface{} `json:"content"`
}

// OrderService validates incoming cart webhooks and records completed orders.
// The provider retries deliveries, so recording is an upsert keyed by the
// provider's order id.
type OrderService struct {
	orders repository.OrderRepository
	cfg    config.WebhookConfig
	client *http.Client
}

func NewOrderService(orders repository.OrderRepository, cfg config.WebhookConfig) *OrderService {
	return &OrderService{
		orders: orders,
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}
}

// ValidateRequest checks a webhook's request token against the provider's
// request-validation endpoint. Anything but a 200 means the delivery did not
// come from the provider.
func (s *OrderService) ValidateRequest(ctx context.Context, requestToken string) bool {
	if requestToken == "" || s.cfg.SecretAPIKey == "" {
		return false
	}

	url := strings.TrimRight(s.cfg.ValidationURL, "/") + "/" + requestToken
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	auth := base64.StdEncoding.EncodeToString([]byte(s.cfg.SecretAPIKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("webhook request validation call failed")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// RecordOrder extracts the order from a completed-order event and upserts it.
// Returns false when the event carries no usable order id or customer email;
// such deliveries are acknowledged but not stored, there is nothing to show on
// the account page without either field.
func (s *OrderService) RecordOrder(ctx context.Context, event *WebhookEvent) (bool, error) {
	if event.EventName != eventOrderCompleted {
		return false, nil
	}

	content := event.Content
	if content == nil {
		return false, nil
	}

	orderID := firstString(content, "token", "orderToken", "invoiceNumber", "id")
	email := strings.ToLower(extractEmail(content))
	if orderID == "" || email == "" {
		logrus.WithField("event", event.EventName).Warn("completed order missing id or email")
		return false, nil
	}

	order := &models.Order{
		ID:        orderID,
		UserEmail: email,
		Total:     extractTotal(content),
		Items:     extractItems(content),
	}

	if err := s.orders.Upsert(ctx, order); err != nil {
		return false, fmt.Errorf("failed to record order: %w", err)
	}
	return true, nil
}

// Provider payloads differ across cart configurations, hence the fallbacks.

func firstString(content map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := content[key].(string); ok && v != "" {
			return v
		}
		if v, ok := content[key].(float64); ok {
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

func extractEmail(content map[string]interface{}) string {
	if v, ok := content["email"].(string); ok && v != "" {
		return v
	}
	if billing, ok := content["billingAddress"].(map[string]interface{}); ok {
		if v, ok := billing["email"].(string); ok && v != "" {
			return v
		}
	}
	if customer, ok := content["customer"].(map[string]interface{}); ok {
		if v, ok := customer["email"].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func extractTotal(content map[string]interface{}) *float64 {
	for _, key := range []string{"grandTotal", "total", "amount"} {
		if v, ok := content[key].(float64); ok {
			return &v
		}
	}
	return nil
}

func extractItems(content map[string]interface{}) models.JSONBArray {
	if items, ok := content["items"].([]interface{}); ok {
		return models.JSONBArray(items)
	}
	if cart, ok := content["cart"].(map[string]interface{}); ok {
		if items, ok := cart["items"].([]interface{}); ok {
			return models.JSONBArray(items)
		}
	}
	return nil
}
