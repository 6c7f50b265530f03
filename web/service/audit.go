package service

import (
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/database"
	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"github.com/Sreehari-M-dev/LOGI-tests/util/common"
)

// Audit actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// AuditLogService records who changed which logbook.
type AuditLogService struct{}

// LogAction stores one audit entry. Failures are logged and returned; the
// caller's request has already succeeded.
func (s *AuditLogService) LogAction(entry *model.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Resource == "" {
		entry.Resource = "logbook"
	}
	if err := database.GetDB().Create(entry).Error; err != nil {
		logger.Warningf("Failed to create audit log: rgno=%d, action=%s, resource=%s, error=%v",
			entry.Rgno, entry.Action, entry.ResourceId, err)
		return err
	}
	return nil
}

// GetAuditLogs returns one page of entries, newest first, and the total count.
func (s *AuditLogService) GetAuditLogs(limit, offset int) ([]model.AuditLog, int64, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	db := database.GetDB()

	var total int64
	if err := db.Model(&model.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]model.AuditLog, 0)
	if err := db.Order("timestamp DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// CleanOldLogs removes entries older than days.
func (s *AuditLogService) CleanOldLogs(days int) (int64, error) {
	if days <= 0 {
		return 0, common.NewErrorf("days must be greater than 0, got %d", days)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	result := database.GetDB().Where("timestamp < ?", cutoff).Delete(&model.AuditLog{})
	if result.Error != nil {
		return 0, result.Error
	}

	logger.Infof("Cleaned %d old audit logs (older than %d days)", result.RowsAffected, days)
	return result.RowsAffected, nil
}
