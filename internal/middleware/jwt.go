package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	appErrors "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/errors"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenValidator verifies a bearer token.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or malformed authorization header"))
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// CurrentUser returns the claims stored by JWT.
func CurrentUser(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok && claims != nil
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
