package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	VolunteerID uuid.UUID
	Name        string
	Role        string
}

// AccessTokenClaims represents the typed JWT issued to volunteers and staff.
type AccessTokenClaims struct {
	VolunteerID uuid.UUID `json:"volunteer_id"`
	Name        string    `json:"name,omitempty"`
	Role        string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}
