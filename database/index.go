package database

import (
	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/logger"
)

// legacyUserIndexes were unique in early schemas and block registering
// several accounts without an email.
var legacyUserIndexes = []string{"username_1", "email_1"}

// IndexInfo describes one index of a table.
type IndexInfo struct {
	Table   string   `json:"table"`
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
}

// RepairIndexes drops legacy user indexes and recreates the unique register
// number index and the unique logbook owner index.
func RepairIndexes() error {
	m := db.Migrator()

	for _, name := range legacyUserIndexes {
		if !m.HasIndex(&model.User{}, name) {
			logger.Infof("index %s does not exist", name)
			continue
		}
		if err := m.DropIndex(&model.User{}, name); err != nil {
			return err
		}
		logger.Infof("dropped index %s", name)
	}

	if m.HasIndex(&model.User{}, "rgno_1") {
		if err := m.DropIndex(&model.User{}, "rgno_1"); err != nil {
			return err
		}
		logger.Info("dropped old index rgno_1")
	}
	if err := m.CreateIndex(&model.User{}, "rgno_1"); err != nil {
		return err
	}
	logger.Info("created unique index rgno_1")

	if !m.HasIndex(&model.LogBook{}, "idx_logbook_owner") {
		if err := m.CreateIndex(&model.LogBook{}, "idx_logbook_owner"); err != nil {
			return err
		}
		logger.Info("created unique index idx_logbook_owner")
	}
	return nil
}

// ListIndexes returns the indexes of the users and logbooks tables.
func ListIndexes() ([]IndexInfo, error) {
	m := db.Migrator()
	result := make([]IndexInfo, 0)
	for _, table := range []any{&model.User{}, &model.LogBook{}} {
		indexes, err := m.GetIndexes(table)
		if err != nil {
			return nil, err
		}
		for _, idx := range indexes {
			unique, _ := idx.Unique()
			result = append(result, IndexInfo{
				Table:   idx.Table(),
				Name:    idx.Name(),
				Columns: idx.Columns(),
				Unique:  unique,
			})
		}
	}
	return result, nil
}
