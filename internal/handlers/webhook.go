// internal/handlers/webhook.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/owlnest/owlnest-backend/internal/services"
	"github.com/owlnest/owlnest-backend/internal/utils"
)

const requestTokenHeader = "X-Snipcart-RequestToken"

type WebhookHandler struct {
	orderService *services.OrderService
}

func NewWebhookHandler(orderService *services.OrderService) *WebhookHandler {
	return &WebhookHandler{orderService: orderService}
}

// POST /v1/webhooks/orders — called by the cart provider, not by browsers. The
// provider keys retries off HTTP status, so unlike the customer-facing API this
// endpoint uses real status codes.
func (h *WebhookHandler) HandleOrderEvent(c *gin.Context) {
	if !h.orderService.ValidateRequest(c.Request.Context(), c.GetHeader(requestTokenHeader)) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid webhook request"})
		return
	}

	var event services.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad JSON"})
		return
	}
	if err := utils.ValidateStruct(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing eventName"})
		return
	}

	recorded, err := h.orderService.RecordOrder(c.Request.Context(), &event)
	if err != nil {
		logrus.WithError(err).Error("failed to record order")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "DB error"})
		return
	}

	if !recorded {
		c.JSON(http.StatusOK, gin.H{"message": "Ignored"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
