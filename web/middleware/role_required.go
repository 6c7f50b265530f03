package middleware

import (
	"net/http"

	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/web/entity"

	"github.com/gin-gonic/gin"
)

// RoleRequired lets the request through only when the caller's role is one
// of roles. It must run after BearerAuth. Rejected callers get 403 with msg.
func RoleRequired(msg string, roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(c *gin.Context) {
		role, exists := c.Get(roleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{Error: "No token provided"})
			return
		}
		if r, ok := role.(string); !ok || !allowed[r] {
			c.AbortWithStatusJSON(http.StatusForbidden, entity.Msg{Error: msg})
			return
		}
		c.Next()
	}
}
