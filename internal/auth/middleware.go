package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/interlinear/internal/entities"
)

// Context keys for account data
const (
	ContextKeyOwnerUID = "auth_owner_uid"
	ContextKeyUsername = "auth_username"
)

// TokenValidator resolves a bearer token to an account.
type TokenValidator interface {
	ValidateToken(token string) (*entities.User, error)
}

// Middleware authenticates document API requests by Bearer token.
type Middleware struct {
	validator TokenValidator
}

// NewMiddleware creates a new bearer authentication middleware.
func NewMiddleware(validator TokenValidator) *Middleware {
	return &Middleware{validator: validator}
}

// Handler returns a Gin middleware that rejects requests without a valid token.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := m.tryBearerAuth(c)
		if user == nil {
			c.Header("WWW-Authenticate", `Bearer realm="documents"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(ContextKeyOwnerUID, user.UID)
		c.Set(ContextKeyUsername, user.Username)
		c.Next()
	}
}

func (m *Middleware) tryBearerAuth(c *gin.Context) *entities.User {
	token, ok := BearerToken(c.GetHeader("Authorization"))
	if !ok {
		return nil
	}

	user, err := m.validator.ValidateToken(token)
	if err != nil {
		return nil
	}
	return user
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// GetOwnerUID returns the authenticated account's owner identity, or "".
func GetOwnerUID(c *gin.Context) string {
	return c.GetString(ContextKeyOwnerUID)
}
