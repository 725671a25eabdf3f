package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"vvf-roster/backend/pkg/response"
)

// MustGetUserID extracts user_id from the Gin context. When the JWT
// middleware did not inject it, a 401 is written and ok is false; the
// caller should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// GetGroup extracts the compiling group from the Gin context. Editors
// and approvers carry no group, so empty is a valid answer.
func GetGroup(c *gin.Context) string {
	v, exists := c.Get("group")
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetTokenInfo extracts the token ID and expiry injected by the JWT
// middleware, for logout blacklisting.
func GetTokenInfo(c *gin.Context) (string, time.Time) {
	id, _ := c.Get("token_id")
	exp, _ := c.Get("token_expires_at")
	tokenID, _ := id.(string)
	expiresAt, _ := exp.(time.Time)
	return tokenID, expiresAt
}
