package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rakshamitra/relief-backend/pkg/enums"
)

// Request is a help request submitted by a victim. Its status and
// assignment are mutated only through the assignment service; the single
// source of truth for lifecycle state.
type Request struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name                string              `gorm:"column:name;not null" json:"name"`
	Contact             string              `gorm:"column:contact;not null" json:"contact"`
	Type                string              `gorm:"column:type;not null" json:"type"`
	Urgency             enums.Urgency       `gorm:"column:urgency;type:text;not null;default:'Medium'" json:"urgency"`
	Description         string              `gorm:"column:description" json:"description"`
	Latitude            float64             `gorm:"column:latitude" json:"latitude"`
	Longitude           float64             `gorm:"column:longitude" json:"longitude"`
	Status              enums.RequestStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	AssignedVolunteerID *uuid.UUID          `gorm:"column:assigned_volunteer_id;type:uuid" json:"assigned_volunteer_id"`
	ImageURL            *string             `gorm:"column:image_url" json:"image_url,omitempty"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
