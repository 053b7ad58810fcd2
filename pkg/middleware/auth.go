package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/akarkode/authentication/internal/tokens"
	"github.com/akarkode/authentication/pkg/metrics"
)

// ClaimsKey is the gin context key under which verified claims are stored.
const ClaimsKey = "claims"

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Require(raw, expectedType string) (jwt.MapClaims, error)
}

// RequireAccessToken returns a Gin middleware that verifies Bearer access
// tokens using the provided verifier. A missing credential is 403; a
// presented-but-rejected credential is 401. Decode failures all share one
// response body so callers cannot probe which check failed.
func RequireAccessToken(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			metrics.AuthFailures.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || raw == "" {
			metrics.AuthFailures.WithLabelValues("malformed_header").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := ver.Require(raw, tokens.TypeAccess)
		if err != nil {
			if errors.Is(err, tokens.ErrWrongTokenType) {
				metrics.AuthFailures.WithLabelValues("wrong_type").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			metrics.AuthFailures.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
