package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rakshamitra/relief-backend/pkg/enums"
)

// Staff is an authenticated operator of the coordination platform.
type Staff struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Contact       string          `gorm:"column:contact;not null;uniqueIndex" json:"contact"`
	PasswordHash  string          `gorm:"column:password_hash;not null" json:"-"`
	Role          enums.StaffRole `gorm:"column:role;type:text;not null;default:'responder'" json:"role"`
	Department    *string         `gorm:"column:department" json:"department,omitempty"`
	Certification *string         `gorm:"column:certification" json:"certification,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
