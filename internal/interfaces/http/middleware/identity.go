package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/domain/sales"
)

// Context keys for the caller's identity
const (
	userIDKey   = "identity_user_id"
	userRoleKey = "identity_user_role"
)

// Headers the upstream gateway asserts after authenticating the caller.
// The API itself does not verify credentials; it trusts the gateway.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Identity copies the gateway-asserted caller identity into the request
// context. Missing headers are left empty; handlers that need an identity
// reject the request themselves.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(HeaderUserID)); id != "" {
			c.Set(userIDKey, id)
		}
		if role := strings.ToUpper(strings.TrimSpace(c.GetHeader(HeaderUserRole))); role != "" {
			c.Set(userRoleKey, role)
		}
		c.Next()
	}
}

// GetUserID returns the caller's user ID, or empty when not asserted
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// GetUserRole returns the caller's role, defaulting to cashier when the
// gateway asserted no role
func GetUserRole(c *gin.Context) sales.Role {
	role := c.GetString(userRoleKey)
	if role == "" {
		return sales.RoleCashier
	}
	return sales.Role(role)
}
