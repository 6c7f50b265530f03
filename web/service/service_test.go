package service

import (
	"path/filepath"
	"testing"

	"github.com/Sreehari-M-dev/LOGI-tests/config"
	"github.com/Sreehari-M-dev/LOGI-tests/database"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	cfg := config.GetDatabaseConfig()
	cfg.Path = filepath.Join(t.TempDir(), "service-test.db")
	require.NoError(t, database.InitDB(cfg))
	t.Cleanup(func() { _ = database.CloseDB() })
}
