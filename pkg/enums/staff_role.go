package enums

import "fmt"

// StaffRole is the staff member's function within the response organization.
type StaffRole string

const (
	StaffRoleResponder   StaffRole = "responder"
	StaffRoleCoordinator StaffRole = "coordinator"
	StaffRoleAdmin       StaffRole = "admin"
)

var validStaffRoles = []StaffRole{
	StaffRoleResponder,
	StaffRoleCoordinator,
	StaffRoleAdmin,
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
