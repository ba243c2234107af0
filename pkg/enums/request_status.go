package enums

import (
	"fmt"
	"strings"
)

// RequestStatus tracks the lifecycle of a help request.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusAssigned   RequestStatus = "assigned"
	RequestStatusInProgress RequestStatus = "in_progress"
	// RequestStatusEmergency is a legacy alias for the escalation branch.
	// Existing rows may carry it; no operation produces it anymore.
	RequestStatusEmergency RequestStatus = "emergency"
	RequestStatusResolved  RequestStatus = "resolved"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusAssigned,
	RequestStatusInProgress,
	RequestStatusEmergency,
	RequestStatusResolved,
}

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RequestStatus.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsEscalated reports whether the request sits on the escalation branch.
func (s RequestStatus) IsEscalated() bool {
	return s == RequestStatusInProgress || s == RequestStatusEmergency
}

// ResolvableRequestStatuses lists the statuses Resolve may leave from:
// assigned plus the whole escalation branch, so legacy emergency rows can
// still be closed out.
func ResolvableRequestStatuses() []RequestStatus {
	out := []RequestStatus{RequestStatusAssigned}
	for _, candidate := range validRequestStatuses {
		if candidate.IsEscalated() {
			out = append(out, candidate)
		}
	}
	return out
}

// ParseRequestStatus canonicalizes raw input into a RequestStatus. Input is
// lowercased first so rows written by older case-insensitive paths still
// parse; all comparisons after the store boundary are exact.
func ParseRequestStatus(value string) (RequestStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validRequestStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
