package enums

import "fmt"

// VolunteerStatus reflects a volunteer's standing in the registry.
type VolunteerStatus string

const (
	VolunteerStatusActive   VolunteerStatus = "active"
	VolunteerStatusVerified VolunteerStatus = "verified"
	VolunteerStatusInactive VolunteerStatus = "inactive"
)

var validVolunteerStatuses = []VolunteerStatus{
	VolunteerStatusActive,
	VolunteerStatusVerified,
	VolunteerStatusInactive,
}

// IsValid reports whether the value is a known VolunteerStatus.
func (v VolunteerStatus) IsValid() bool {
	for _, candidate := range validVolunteerStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// Notifiable reports whether broadcast alerts should reach this volunteer.
func (v VolunteerStatus) Notifiable() bool {
	return v == VolunteerStatusActive || v == VolunteerStatusVerified
}

// ParseVolunteerStatus converts raw input into a VolunteerStatus.
func ParseVolunteerStatus(value string) (VolunteerStatus, error) {
	for _, candidate := range validVolunteerStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid volunteer status %q", value)
}
