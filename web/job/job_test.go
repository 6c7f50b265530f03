package job

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/config"
	"github.com/Sreehari-M-dev/LOGI-tests/database"
	"github.com/Sreehari-M-dev/LOGI-tests/database/model"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	cfg := config.GetDatabaseConfig()
	cfg.Path = filepath.Join(t.TempDir(), "job.db")
	require.NoError(t, database.InitDB(cfg))
	t.Cleanup(func() { _ = database.CloseDB() })
}

func TestAuditCleanupJob(t *testing.T) {
	setup(t)
	db := database.GetDB()
	require.NoError(t, db.Create(&model.AuditLog{Action: "CREATE", Timestamp: time.Now().AddDate(0, 0, -40)}).Error)
	require.NoError(t, db.Create(&model.AuditLog{Action: "UPDATE", Timestamp: time.Now()}).Error)

	NewAuditCleanupJob(30).Run()

	var n int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, 90, NewAuditCleanupJob(0).retentionDays)
}

func TestJobsRegisterWithCron(t *testing.T) {
	setup(t)
	c := cron.New()
	_, err := c.AddJob("@every 1m", NewCheckpointJob())
	require.NoError(t, err)
	_, err = c.AddJob("@daily", NewAuditCleanupJob(90))
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)

	assert.NotPanics(t, NewCheckpointJob().Run)
}
