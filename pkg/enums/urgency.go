package enums

import (
	"fmt"
	"strings"
)

// Urgency ranks how quickly a request needs attention.
type Urgency string

const (
	UrgencyLow      Urgency = "Low"
	UrgencyMedium   Urgency = "Medium"
	UrgencyHigh     Urgency = "High"
	UrgencyCritical Urgency = "Critical"
)

var validUrgencies = []Urgency{
	UrgencyLow,
	UrgencyMedium,
	UrgencyHigh,
	UrgencyCritical,
}

// String implements fmt.Stringer.
func (u Urgency) String() string {
	return string(u)
}

// IsValid reports whether the value is a known Urgency.
func (u Urgency) IsValid() bool {
	for _, candidate := range validUrgencies {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUrgency converts raw input into an Urgency.
func ParseUrgency(value string) (Urgency, error) {
	for _, candidate := range validUrgencies {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid urgency %q", value)
}
