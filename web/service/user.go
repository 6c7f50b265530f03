package service

import (
	"errors"

	"github.com/Sreehari-M-dev/LOGI-tests/database"
	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/logger"
	"github.com/Sreehari-M-dev/LOGI-tests/util/crypto"

	"gorm.io/gorm"
)

// UserService manages portal accounts.
type UserService struct{}

// Register stores a new account with the given plain password. The
// register number must be unused.
func (s *UserService) Register(user *model.User, password string) error {
	if user.Name == "" || user.Rgno == 0 || password == "" {
		return &InputError{Msg: "Name, register number, and password are required"}
	}
	if user.Role == "" {
		user.Role = model.RoleStudent
	}
	if !user.Role.Valid() {
		return &InputError{Msg: "Role must be student, faculty or admin"}
	}

	db := database.GetDB()
	var count int64
	if err := db.Model(&model.User{}).Where("rgno = ?", user.Rgno).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserExists
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hash
	user.IsActive = true

	err = db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserExists
	}
	if err != nil {
		return err
	}
	logger.Infof("registered user rgno=%d role=%s", user.Rgno, user.Role)
	return nil
}

// CheckUser returns the account matching rgno and password. Unknown
// accounts and wrong passwords both give ErrInvalidCredentials; a disabled
// account gives ErrInactive.
func (s *UserService) CheckUser(rgno int64, password string) (*model.User, error) {
	if rgno == 0 || password == "" {
		return nil, &InputError{Msg: "Register number and password are required"}
	}

	user, err := s.GetUserByRgno(rgno)
	if errors.Is(err, ErrNotFound) {
		crypto.BurnCompare(password)
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if !crypto.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}

	if crypto.NeedsRehash(user.Password) {
		if hash, err := crypto.HashPassword(password); err == nil {
			if err := s.updatePassword(user.Id, hash); err != nil {
				logger.Warning("rehash password failed:", err)
			}
		}
	}
	return user, nil
}

// GetUser returns the account with the given id.
func (s *UserService) GetUser(id string) (*model.User, error) {
	return s.first("id = ?", id)
}

// GetUserByRgno returns the account with the given register number.
func (s *UserService) GetUserByRgno(rgno int64) (*model.User, error) {
	return s.first("rgno = ?", rgno)
}

func (s *UserService) first(query string, args ...any) (*model.User, error) {
	user := &model.User{}
	err := database.GetDB().Where(query, args...).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsers lists every account, newest first.
func (s *UserService) GetUsers() ([]model.User, error) {
	users := make([]model.User, 0)
	err := database.GetDB().Order("created_at DESC").Find(&users).Error
	return users, err
}

// ChangePassword replaces the password of id after checking the current one.
func (s *UserService) ChangePassword(id, current, next string) error {
	if current == "" || next == "" {
		return &InputError{Msg: "Current password and new password are required"}
	}
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if !crypto.CheckPassword(user.Password, current) {
		return ErrWrongPassword
	}
	hash, err := crypto.HashPassword(next)
	if err != nil {
		return err
	}
	return s.updatePassword(user.Id, hash)
}

// SetPassword resets the password of rgno without checking the old one.
func (s *UserService) SetPassword(rgno int64, password string) error {
	if password == "" {
		return &InputError{Msg: "password can not be empty"}
	}
	user, err := s.GetUserByRgno(rgno)
	if err != nil {
		return err
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}
	return s.updatePassword(user.Id, hash)
}

// SetActive enables or disables the account of rgno.
func (s *UserService) SetActive(rgno int64, active bool) error {
	result := database.GetDB().Model(&model.User{}).
		Where("rgno = ?", rgno).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) updatePassword(id, hash string) error {
	return database.GetDB().Model(&model.User{}).
		Where("id = ?", id).
		Update("password", hash).
		Error
}
