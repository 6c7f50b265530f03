package job

import (
	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"github.com/Sreehari-M-dev/LOGI-tests/util/common"
	"github.com/Sreehari-M-dev/LOGI-tests/web/service"
)

// AuditCleanupJob removes audit entries older than the retention.
type AuditCleanupJob struct {
	auditService  service.AuditLogService
	retentionDays int
}

// NewAuditCleanupJob keeps retentionDays of history; zero or less means 90.
func NewAuditCleanupJob(retentionDays int) *AuditCleanupJob {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &AuditCleanupJob{retentionDays: retentionDays}
}

func (j *AuditCleanupJob) Run() {
	defer common.Recover("audit cleanup job")

	logger.Debug("Audit cleanup job started")

	if _, err := j.auditService.CleanOldLogs(j.retentionDays); err != nil {
		logger.Warning("Failed to clean old audit logs:", err)
		return
	}
	logger.Debugf("Audit cleanup completed (retention: %d days)", j.retentionDays)
}
