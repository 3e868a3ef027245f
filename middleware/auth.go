package middleware

import (
	"net/http"
	"strings"

	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "userID"
	ContextRoles  = "roles"
)

// Auth validates the bearer token and stores the caller's id and role
// names in the request context. Handlers read them via CurrentUserID and
// RequireRole; services never reach into request state themselves.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		userID, roles, err := utils.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRoles, roles)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the caller holds one of the given
// roles. Must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		held, _ := c.Get(ContextRoles)
		names, ok := held.([]string)
		if !ok {
			utils.JSONError(c, http.StatusForbidden, "forbidden")
			c.Abort()
			return
		}
		for _, name := range names {
			if allowed[name] {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "forbidden")
		c.Abort()
	}
}

// CurrentUserID returns the authenticated caller's id from context.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
