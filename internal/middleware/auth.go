// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/owlnest/owlnest-backend/internal/services"
	"github.com/owlnest/owlnest-backend/internal/utils"
)

// IdentityGate resolves the caller before any mutating route. Every failure mode
// (missing header, malformed header, rejected credential) produces the same
// unauthorized response.
func IdentityGate(verifier services.IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := bearerCredential(c.GetHeader("Authorization"))
		if credential == "" {
			utils.BusinessError(c, string(services.CodeUnauthorized), "Unauthorized")
			c.Abort()
			return
		}

		userID, err := verifier.Verify(c.Request.Context(), credential)
		if err != nil {
			utils.BusinessError(c, string(services.CodeUnauthorized), "Unauthorized")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

func bearerCredential(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
