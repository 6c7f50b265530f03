package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DatabaseConfig holds the SQLite store settings shared by both services.
type DatabaseConfig struct {
	Path        string `json:"path"`
	JournalMode string `json:"journalMode"`
	Synchronous string `json:"synchronous"`
	BusyTimeout int    `json:"busyTimeout"` // milliseconds
}

// GetDSN returns the data source name handed to the gorm sqlite driver.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s?cache=shared&_journal_mode=%s&_synchronous=%s&_busy_timeout=%d",
		c.Path, c.JournalMode, c.Synchronous, c.BusyTimeout)
}

// GetDatabaseConfig returns the store configuration for the configured path.
// WAL journaling lets the auth and logbook processes share one file.
func GetDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Path:        GetDBPath(),
		JournalMode: "WAL",
		Synchronous: "NORMAL",
		BusyTimeout: 5000,
	}
}

// ValidateConfig validates the database configuration.
func (c *DatabaseConfig) ValidateConfig() error {
	if c.Path == "" {
		return fmt.Errorf("SQLite path cannot be empty")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busy timeout must not be negative")
	}
	return nil
}

// EnsureDirectoryExists creates the directory holding the database file.
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	dir := filepath.Dir(c.Path)
	return os.MkdirAll(dir, 0o755)
}
