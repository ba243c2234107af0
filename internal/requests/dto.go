package requests

import (
	"github.com/rakshamitra/relief-backend/internal/notify"
	"github.com/rakshamitra/relief-backend/pkg/db/models"
)

// CreateParams carries public intake input after validation.
type CreateParams struct {
	Name        string
	Contact     string
	Type        string
	Urgency     string
	Description string
	Latitude    float64
	Longitude   float64
	ImageURL    *string
}

// TransitionResult wraps the updated request plus delivery diagnostics for
// the side-effect notifications. Notification failures never fail the
// transition; they show up here instead.
type TransitionResult struct {
	Request       *models.Request  `json:"request"`
	Notifications []notify.Outcome `json:"notifications,omitempty"`
}

// ListParams configures the authenticated listing.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult wraps returned requests and the cursor for the next page.
type ListResult struct {
	Items  []models.Request `json:"items"`
	Cursor string           `json:"cursor"`
}
