package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKey = "session"

// Middleware verifies the bearer token and stores the session on the gin
// context. Requests without a valid token are rejected with 401.
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		sess, err := m.Parse(token)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(contextKey, sess)
		c.Next()
	}
}

// FromContext returns the session stored by Middleware.
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*Session)
	return sess, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   msg,
	})
}
