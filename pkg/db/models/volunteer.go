package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rakshamitra/relief-backend/pkg/enums"
)

// Volunteer is a registered responder. Read-only from the assignment
// service's perspective except for status filtering.
type Volunteer struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string                `gorm:"column:name;not null" json:"name"`
	Contact      string                `gorm:"column:contact;not null" json:"contact"`
	Skills       string                `gorm:"column:skills" json:"skills"`
	Location     string                `gorm:"column:location" json:"location"`
	Availability string                `gorm:"column:availability;not null;default:'available'" json:"availability"`
	Status       enums.VolunteerStatus `gorm:"column:status;type:text;not null;default:'active'" json:"status"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
