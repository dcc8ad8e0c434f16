// internal/handlers/verification.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/owlnest/owlnest-backend/internal/services"
)

type VerificationHandler struct {
	verificationService *services.VerificationService
}

func NewVerificationHandler(verificationService *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// VerifyRequest accepts {"token"} or the legacy {"key"} alias.
type VerifyRequest struct {
	Token string `json:"token"`
	Key   string `json:"key"`
}

// POST /v1/verify — public, read-only, no auth. Always 200 with a JSON body; the
// landing page decides what to render from valid/activated/reason.
func (h *VerificationHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, &services.VerifyResult{
			Valid:   false,
			Reason:  "missing_token",
			Message: "Missing token",
		})
		return
	}

	raw := req.Token
	if raw == "" {
		raw = req.Key
	}

	result := h.verificationService.Verify(c.Request.Context(), raw)
	c.JSON(http.StatusOK, result)
}
