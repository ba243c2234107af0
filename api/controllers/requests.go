package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rakshamitra/relief-backend/api/middleware"
	"github.com/rakshamitra/relief-backend/api/responses"
	"github.com/rakshamitra/relief-backend/api/validators"
	"github.com/rakshamitra/relief-backend/internal/requests"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
	"github.com/rakshamitra/relief-backend/pkg/pagination"
)

type createRequestPayload struct {
	Name        string  `json:"name" validate:"required"`
	Contact     string  `json:"contact" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Urgency     string  `json:"urgency,omitempty"`
	Description string  `json:"description,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// PublicCreateRequest is the unauthenticated intake endpoint victims use.
func PublicCreateRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service unavailable"))
			return
		}

		var payload createRequestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Create(r.Context(), requests.CreateParams{
			Name:        payload.Name,
			Contact:     payload.Contact,
			Type:        payload.Type,
			Urgency:     payload.Urgency,
			Description: payload.Description,
			Latitude:    payload.Latitude,
			Longitude:   payload.Longitude,
			ImageURL:    payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// PublicListRequests feeds the public intake view.
func PublicListRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListOpen(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AcceptRequest claims a pending request for the authenticated volunteer.
func AcceptRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request, svc requests.Service, requestID, volunteerID uuid.UUID) (*requests.TransitionResult, error) {
		return svc.Accept(r.Context(), requestID, volunteerID)
	})
}

// ResolveRequest closes out a request the volunteer is assigned to.
func ResolveRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request, svc requests.Service, requestID, volunteerID uuid.UUID) (*requests.TransitionResult, error) {
		return svc.Resolve(r.Context(), requestID, volunteerID)
	})
}

// EscalateRequest flags an assigned request for priority response.
func EscalateRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(svc, logg, func(r *http.Request, svc requests.Service, requestID, volunteerID uuid.UUID) (*requests.TransitionResult, error) {
		return svc.Escalate(r.Context(), requestID, volunteerID)
	})
}

func transitionHandler(svc requests.Service, logg *logger.Logger, run func(*http.Request, requests.Service, uuid.UUID, uuid.UUID) (*requests.TransitionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service unavailable"))
			return
		}

		volunteerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := parseRequestID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := run(r, svc, requestID, volunteerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListRequests is the authenticated, cursor-paginated listing.
func ListRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "requests service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), requests.ListParams{
			Status: validators.QueryString(r, "status"),
			Limit:  limit,
			Cursor: validators.QueryString(r, "cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.VolunteerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "volunteer context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid volunteer id")
	}
	return id, nil
}

func parseRequestID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "requestId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id")
	}
	return id, nil
}
