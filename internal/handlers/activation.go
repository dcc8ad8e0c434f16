// internal/handlers/activation.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/owlnest/owlnest-backend/internal/services"
	"github.com/owlnest/owlnest-backend/internal/utils"
)

type ActivationHandler struct {
	activationService *services.ActivationService
}

func NewActivationHandler(activationService *services.ActivationService) *ActivationHandler {
	return &ActivationHandler{activationService: activationService}
}

// ActivateRequest accepts {"token"} or the legacy {"key"} alias.
type ActivateRequest struct {
	Token string `json:"token" validate:"required_without=Key"`
	Key   string `json:"key" validate:"required_without=Token"`
}

func (r *ActivateRequest) raw() string {
	if r.Token != "" {
		return r.Token
	}
	return r.Key
}

type ActivateResponse struct {
	Success      bool        `json:"success"`
	Token        string      `json:"token"`
	Payload      string      `json:"payload"`
	DisplayToken string      `json:"display_token"`
	Activation   interface{} `json:"activation"`
}

// POST /v1/keys/activate
func (h *ActivationHandler) Activate(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.BusinessError(c, string(services.CodeUnauthorized), "Unauthorized")
		return
	}

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BusinessError(c, string(services.CodeInvalidCode), "Missing token")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.BusinessError(c, string(services.CodeInvalidCode), "Missing token")
		return
	}

	result, svcErr := h.activationService.Activate(c.Request.Context(), userID, req.raw())
	if svcErr != nil {
		if svcErr.Code == services.CodeDBError || svcErr.Code == services.CodeAmbiguousToken {
			logrus.WithError(svcErr).Error("activation failed")
		}
		utils.BusinessError(c, string(svcErr.Code), svcErr.Message)
		return
	}

	c.JSON(http.StatusOK, ActivateResponse{
		Success:      true,
		Token:        result.Token,
		Payload:      result.Payload,
		DisplayToken: result.DisplayToken,
		Activation:   result.Activation,
	})
}
