package controllers

import (
	"net/http"

	"github.com/rakshamitra/relief-backend/api/responses"
	"github.com/rakshamitra/relief-backend/api/validators"
	"github.com/rakshamitra/relief-backend/internal/staff"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
)

type staffSignupPayload struct {
	Name          string  `json:"name" validate:"required"`
	Contact       string  `json:"contact" validate:"required"`
	Password      string  `json:"password" validate:"required,min=8"`
	Role          string  `json:"role,omitempty" validate:"omitempty,oneof=responder coordinator admin"`
	Department    *string `json:"department,omitempty"`
	Certification *string `json:"certification,omitempty"`
}

type staffLoginPayload struct {
	Contact  string `json:"contact" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// StaffSignup registers a staff account and issues a bearer token.
func StaffSignup(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "staff service unavailable"))
			return
		}

		var payload staffSignupPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), staff.SignupParams{
			Name:          payload.Name,
			Contact:       payload.Contact,
			Password:      payload.Password,
			Role:          payload.Role,
			Department:    payload.Department,
			Certification: payload.Certification,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// StaffLogin authenticates a staff account and issues a bearer token.
func StaffLogin(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "staff service unavailable"))
			return
		}

		var payload staffLoginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), staff.Credentials{
			Contact:  payload.Contact,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
