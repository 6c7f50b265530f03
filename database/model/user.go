package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// User is an account of the portal. Rgno (register number) is the identity
// shared with the logbook service.
type User struct {
	Id         string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name       string    `json:"name" gorm:"not null"`
	Email      string    `json:"email,omitempty"`
	RollNo     int64     `json:"rollno,omitempty"`
	Rgno       int64     `json:"rgno" gorm:"uniqueIndex:rgno_1;not null"`
	Password   string    `json:"-" gorm:"not null"`
	Role       Role      `json:"role" gorm:"not null;default:student"`
	Department string    `json:"department,omitempty"`
	Semester   int       `json:"semester,omitempty"`
	IsActive   bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Id == "" {
		u.Id = uuid.NewString()
	}
	return nil
}
