package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDContextKey = "userID"
	emailContextKey  = "userEmail"
)

// Middleware validates bearer tokens and stores the authenticated user id and
// email in the Gin context. Requests without a valid token are aborted with a
// 401 and the standard error envelope.
func (t *TokenIssuer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c)
			return
		}
		claims, err := t.Verify(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		c.Set(userIDContextKey, claims.UserID)
		c.Set(emailContextKey, claims.Email)
		c.Next()
	}
}

// UserIDFromContext retrieves the authenticated user id set by Middleware.
func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// EmailFromContext retrieves the authenticated email set by Middleware.
func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(emailContextKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// extractBearer pulls the token out of an "Authorization: Bearer <token>"
// header, tolerating case differences in the scheme.
func extractBearer(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    "invalid authentication credentials",
	})
}
