package service

import (
	"errors"

	"github.com/Sreehari-M-dev/LOGI-tests/database"
	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/logger"

	"gorm.io/gorm"
)

// LogBookService stores and reads student logbooks.
type LogBookService struct{}

func findOwner(tx *gorm.DB, lb *model.LogBook) (*model.LogBook, error) {
	existing := &model.LogBook{}
	err := tx.Where("roll_no = ? AND rgno = ? AND subject = ?", lb.RollNo, lb.Rgno, lb.Subject).
		First(existing).Error
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// Save inserts lb when no logbook exists for its (roll number, register
// number, subject) triple, and otherwise merges it into the stored one.
func (s *LogBookService) Save(lb *model.LogBook) (id string, isUpdate bool, err error) {
	db := database.GetDB()

	existing, err := findOwner(db, lb)
	switch {
	case database.IsNotFound(err):
		FillTotals(lb)
		err = db.Create(lb).Error
		if err == nil {
			logger.Infof("logbook %s created for rgno %d (%s)", lb.Id, lb.Rgno, lb.Subject)
			return lb.Id, false, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", false, err
		}
		// A concurrent submit created it first.
		existing, err = findOwner(db, lb)
		if err != nil {
			return "", false, err
		}
	case err != nil:
		return "", false, err
	}

	Merge(existing, lb)
	FillTotals(existing)
	if err := db.Save(existing).Error; err != nil {
		return "", false, err
	}
	logger.Infof("logbook %s updated for rgno %d (%s)", existing.Id, existing.Rgno, existing.Subject)
	return existing.Id, true, nil
}

// GetAll returns every logbook, newest first.
func (s *LogBookService) GetAll() ([]model.LogBook, error) {
	return s.find("")
}

// GetByRgno returns the logbooks of one register number, newest first.
func (s *LogBookService) GetByRgno(rgno int64) ([]model.LogBook, error) {
	return s.find("rgno = ?", rgno)
}

// GetByRollNo returns the logbooks of one roll number, newest first.
func (s *LogBookService) GetByRollNo(rollNo int64) ([]model.LogBook, error) {
	return s.find("roll_no = ?", rollNo)
}

func (s *LogBookService) find(query string, args ...any) ([]model.LogBook, error) {
	db := database.GetDB().Model(&model.LogBook{})
	if query != "" {
		db = db.Where(query, args...)
	}
	logbooks := make([]model.LogBook, 0)
	if err := db.Order("created_at DESC").Find(&logbooks).Error; err != nil {
		return nil, err
	}
	return logbooks, nil
}

// GetById returns ErrNotFound when there is no such logbook.
func (s *LogBookService) GetById(id string) (*model.LogBook, error) {
	lb := &model.LogBook{}
	err := database.GetDB().Where("id = ?", id).First(lb).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return lb, nil
}

// Delete removes a logbook.
func (s *LogBookService) Delete(id string) error {
	result := database.GetDB().Where("id = ?", id).Delete(&model.LogBook{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	logger.Infof("logbook %s deleted", id)
	return nil
}
