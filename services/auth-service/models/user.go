package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered member of the organisation: volunteers submit
// and review, admins may download the LOPD export.
type User struct {
	ID        string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Role      string         `gorm:"default:'volunteer'" json:"role"`
	DNI       *string        `gorm:"uniqueIndex" json:"dni,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Zone      string         `gorm:"default:'general'" json:"zone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
