package controllers

import (
	"net/http"

	"github.com/rakshamitra/relief-backend/api/responses"
	"github.com/rakshamitra/relief-backend/api/validators"
	"github.com/rakshamitra/relief-backend/internal/notify"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
)

type whatsAppPayload struct {
	Contacts []string `json:"contacts" validate:"required,min=1"`
	Message  string   `json:"message" validate:"required"`
	Method   string   `json:"method,omitempty" validate:"omitempty,oneof=api links"`
}

// WhatsAppSend builds wa.me deep links for the operator, or bulk-sends
// through the gateway when method is "api".
func WhatsAppSend(gateway notify.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gateway == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification gateway unavailable"))
			return
		}

		var payload whatsAppPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Method == "api" {
			outcomes, _ := gateway.NotifyMany(r.Context(), payload.Contacts, payload.Message)
			responses.WriteSuccess(w, map[string]any{"outcomes": outcomes})
			return
		}

		links := gateway.BulkWhatsAppLinks(payload.Contacts, payload.Message)
		responses.WriteSuccess(w, map[string]any{"links": links})
	}
}
