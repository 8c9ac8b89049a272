package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/helpdeskhq/ticketdesk/internal/auth"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthResultFunc reports a gate outcome, e.g. into a prometheus counter.
type AuthResultFunc func(result string)

type AuthMiddleware struct {
	jwt     TokenVerifier
	observe AuthResultFunc
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) WithObserver(fn AuthResultFunc) *AuthMiddleware {
	m.observe = fn
	return m
}

func (m *AuthMiddleware) report(result string) {
	if m.observe != nil {
		m.observe(result)
	}
}

// RequireAuth admits or rejects a request based on the bearer token.
// A missing or malformed Authorization header and a token that fails
// verification both end in 401 with distinct messages, "Unauthorized"
// and "Invalid token", so clients can tell a missing credential from
// a rejected one.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.report("missing_header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			m.report("missing_header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			m.report("invalid_token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		m.report("ok")

		// Stash useful bits of identity on the context
		c.Set(string(CtxUserID), claims.UserID)
		c.Set(string(CtxEmail), claims.Email)

		c.Next()
	}
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(string(CtxUserID))
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(string(CtxEmail))
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
