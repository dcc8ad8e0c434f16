// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the uniform failure shape. Business-logic failures ship with
// HTTP 200 so browser clients handle every outcome through one JSON path; the
// error field carries the reason.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// BusinessError writes a 200 response with a closed-taxonomy error code.
func BusinessError(c *gin.Context, code, message string) {
	c.JSON(http.StatusOK, ErrorBody{
		Success: false,
		Error:   code,
		Message: message,
	})
}

// MethodNotAllowed is the one failure that keeps a non-200 status: it is a
// routing-level fault, not a business outcome.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorBody{
		Success: false,
		Error:   "method_not_allowed",
		Message: "Method Not Allowed",
	})
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok && userIDStr != "" {
			return userIDStr, true
		}
	}
	return "", false
}
