package controllers

import (
	"net/http"

	"github.com/rakshamitra/relief-backend/api/responses"
	"github.com/rakshamitra/relief-backend/api/validators"
	"github.com/rakshamitra/relief-backend/internal/volunteers"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
)

type registerVolunteerPayload struct {
	Name         string `json:"name" validate:"required"`
	Contact      string `json:"contact" validate:"required"`
	Skills       string `json:"skills,omitempty"`
	Location     string `json:"location,omitempty"`
	Availability string `json:"availability,omitempty"`
}

// RegisterVolunteer is the public volunteer signup endpoint.
func RegisterVolunteer(svc volunteers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "volunteers service unavailable"))
			return
		}

		var payload registerVolunteerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		volunteer, err := svc.Register(r.Context(), volunteers.RegisterParams{
			Name:         payload.Name,
			Contact:      payload.Contact,
			Skills:       payload.Skills,
			Location:     payload.Location,
			Availability: payload.Availability,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, volunteer)
	}
}

// ListVolunteers returns the active volunteer pool.
func ListVolunteers(svc volunteers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "volunteers service unavailable"))
			return
		}

		rows, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
