package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/pkg/auth"
)

const sessionKey = "session"

// SessionAuthenticator resolves a session token to a live session
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// AuthMiddleware guards routes that require an admin session
type AuthMiddleware struct {
	authenticator SessionAuthenticator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator SessionAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// SessionAuth rejects requests without a valid, unrevoked session token
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		// Some clients wrap the value in quotes
		authHeader = strings.Trim(authHeader, "\"'")

		token, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		session, err := m.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(sessionKey, session)
		c.Set("adminID", session.AdminID)
		c.Set("username", session.Username)
		c.Next()
	}
}

// GetSession returns the session stored by SessionAuth
func GetSession(c *gin.Context) (*models.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}
