package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rakshamitra/relief-backend/internal/notify"
	"github.com/rakshamitra/relief-backend/pkg/db/models"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
)

// VolunteerSource yields the volunteers an alert should reach.
type VolunteerSource interface {
	ListNotifiable(ctx context.Context) ([]models.Volunteer, error)
}

// BroadcastParams describes an operator-initiated area alert.
type BroadcastParams struct {
	Latitude  float64
	Longitude float64
	Message   string
	Timestamp time.Time
}

// BroadcastResult reports fan-out reach and per-contact diagnostics.
type BroadcastResult struct {
	Recipients int              `json:"recipients"`
	Outcomes   []notify.Outcome `json:"outcomes"`
}

// Service fans alerts out to the volunteer pool through the notification
// gateway. Delivery is best-effort in both entry points.
type Service interface {
	Broadcast(ctx context.Context, params BroadcastParams) (*BroadcastResult, error)
	BroadcastEscalation(ctx context.Context, request *models.Request) []notify.Outcome
}

type service struct {
	volunteers VolunteerSource
	notifier   notify.Service
	logg       *logger.Logger
}

// NewService wires alert fan-out dependencies.
func NewService(volunteers VolunteerSource, notifier notify.Service, logg *logger.Logger) (Service, error) {
	if volunteers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "volunteer source required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification gateway required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alerts logger required")
	}
	return &service{volunteers: volunteers, notifier: notifier, logg: logg}, nil
}

func (s *service) Broadcast(ctx context.Context, params BroadcastParams) (*BroadcastResult, error) {
	if strings.TrimSpace(params.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message required")
	}

	pool, err := s.volunteers.ListNotifiable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list alert recipients")
	}

	message := strings.TrimSpace(params.Message)
	if params.Latitude != 0 || params.Longitude != 0 {
		message = fmt.Sprintf("%s Location: %s", message, mapsLink(params.Latitude, params.Longitude))
	}

	outcomes, errs := s.notifier.NotifyMany(ctx, contacts(pool), message)
	if errs != nil {
		s.logg.Error(ctx, "alert broadcast delivery failures", errs)
	}
	return &BroadcastResult{Recipients: len(pool), Outcomes: outcomes}, nil
}

// BroadcastEscalation tells the pool a request went critical. Errors are
// logged and swallowed so the escalation itself never fails.
func (s *service) BroadcastEscalation(ctx context.Context, request *models.Request) []notify.Outcome {
	pool, err := s.volunteers.ListNotifiable(ctx)
	if err != nil {
		s.logg.Error(ctx, "escalation broadcast recipient lookup failed", err)
		return nil
	}

	message := fmt.Sprintf("ALERT: %s %s request escalated near %s. Respond if you are in the area.",
		request.Urgency, request.Type, mapsLink(request.Latitude, request.Longitude))
	outcomes, errs := s.notifier.NotifyMany(ctx, contacts(pool), message)
	if errs != nil {
		s.logg.Error(ctx, "escalation broadcast delivery failures", errs)
	}
	return outcomes
}

func contacts(pool []models.Volunteer) []string {
	out := make([]string, 0, len(pool))
	for _, volunteer := range pool {
		out = append(out, volunteer.Contact)
	}
	return out
}

func mapsLink(latitude, longitude float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", latitude, longitude)
}
