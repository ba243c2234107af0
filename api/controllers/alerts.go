package controllers

import (
	"net/http"
	"time"

	"github.com/rakshamitra/relief-backend/api/responses"
	"github.com/rakshamitra/relief-backend/api/validators"
	"github.com/rakshamitra/relief-backend/internal/alerts"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
)

type broadcastAlertPayload struct {
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Message   string  `json:"message" validate:"required"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// BroadcastAlert fans an area alert out to active volunteers.
func BroadcastAlert(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alerts service unavailable"))
			return
		}

		var payload broadcastAlertPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		timestamp := time.Now().UTC()
		if payload.Timestamp != "" {
			parsed, err := time.Parse(time.RFC3339, payload.Timestamp)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid timestamp"))
				return
			}
			timestamp = parsed
		}

		result, err := svc.Broadcast(r.Context(), alerts.BroadcastParams{
			Latitude:  payload.Latitude,
			Longitude: payload.Longitude,
			Message:   payload.Message,
			Timestamp: timestamp,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
