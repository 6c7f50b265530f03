package middleware

import (
	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"github.com/Sreehari-M-dev/LOGI-tests/web/service"

	"github.com/gin-gonic/gin"
)

const (
	auditActionKey   = "audit_action"
	auditResourceKey = "audit_resource_id"
)

// MarkAudit asks AuditMiddleware to record action on resourceID once the
// handler has answered successfully.
func MarkAudit(c *gin.Context, action, resourceID string) {
	c.Set(auditActionKey, action)
	c.Set(auditResourceKey, resourceID)
}

// AuditMiddleware records the changes marked by handlers.
func AuditMiddleware() gin.HandlerFunc {
	auditService := service.AuditLogService{}

	return func(c *gin.Context) {
		c.Next()

		action := c.GetString(auditActionKey)
		if action == "" || c.Writer.Status() >= 400 {
			return
		}
		entry := &model.AuditLog{
			Action:     action,
			Resource:   "logbook",
			ResourceId: c.GetString(auditResourceKey),
			IP:         c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
		}
		if claims := GetClaims(c); claims != nil {
			entry.Rgno = claims.Rgno
			entry.Role = model.Role(claims.Role)
		}
		if err := auditService.LogAction(entry); err != nil {
			logger.Warning("Failed to log audit action:", err)
		}
	}
}
