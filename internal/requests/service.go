package requests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rakshamitra/relief-backend/internal/notify"
	"github.com/rakshamitra/relief-backend/pkg/db/models"
	"github.com/rakshamitra/relief-backend/pkg/enums"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
	"github.com/rakshamitra/relief-backend/pkg/pagination"
	"github.com/rakshamitra/relief-backend/pkg/phone"
)

// VolunteerDirectory looks up volunteer records for notification targets.
type VolunteerDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error)
}

// AlertBroadcaster fans an escalation out to the volunteer pool.
type AlertBroadcaster interface {
	BroadcastEscalation(ctx context.Context, request *models.Request) []notify.Outcome
}

// Service owns the request lifecycle. All transitions are optimistic: the
// repository's conditional UPDATE decides the winner and the service turns
// losses into typed errors.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Request, error)
	Accept(ctx context.Context, requestID, volunteerID uuid.UUID) (*TransitionResult, error)
	Resolve(ctx context.Context, requestID, volunteerID uuid.UUID) (*TransitionResult, error)
	Escalate(ctx context.Context, requestID, volunteerID uuid.UUID) (*TransitionResult, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	ListOpen(ctx context.Context, limit int) ([]models.Request, error)
}

// Options wires the request service dependencies. Alerts is optional.
type Options struct {
	Repo           Repository
	Notifier       notify.Service
	Volunteers     VolunteerDirectory
	Alerts         AlertBroadcaster
	OversightEmail string
	CountryCode    string
	Logger         *logger.Logger
}

type service struct {
	repo           Repository
	notifier       notify.Service
	volunteers     VolunteerDirectory
	alerts         AlertBroadcaster
	oversightEmail string
	normalizer     phone.Normalizer
	logg           *logger.Logger
}

// NewService wires request lifecycle dependencies.
func NewService(opts Options) (Service, error) {
	if opts.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "requests repository required")
	}
	if opts.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification gateway required")
	}
	if opts.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "requests logger required")
	}
	return &service{
		repo:           opts.Repo,
		notifier:       opts.Notifier,
		volunteers:     opts.Volunteers,
		alerts:         opts.Alerts,
		oversightEmail: opts.OversightEmail,
		normalizer:     phone.Normalizer{CountryCode: opts.CountryCode},
		logg:           opts.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.Request, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if strings.TrimSpace(params.Contact) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact required")
	}
	if strings.TrimSpace(params.Type) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request type required")
	}

	urgency := enums.UrgencyMedium
	if strings.TrimSpace(params.Urgency) != "" {
		parsed, err := enums.ParseUrgency(params.Urgency)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid urgency")
		}
		urgency = parsed
	}

	contact := strings.TrimSpace(params.Contact)
	if phone.LooksLikePhoneNumber(contact) {
		contact = s.normalizer.Normalize(contact)
	}

	request := &models.Request{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(params.Name),
		Contact:     contact,
		Type:        strings.TrimSpace(params.Type),
		Urgency:     urgency,
		Description: params.Description,
		Latitude:    params.Latitude,
		Longitude:   params.Longitude,
		Status:      enums.RequestStatusPending,
		ImageURL:    params.ImageURL,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}
	return request, nil
}

func (s *service) Accept(ctx context.Context, requestID, volunteerID uuid.UUID) (*TransitionResult, error) {
	if err := requireIDs(requestID, volunteerID); err != nil {
		return nil, err
	}

	result, err := s.repo.Accept(ctx, requestID, volunteerID, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept request")
	}
	if !result.Updated {
		if result.Current == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "request already taken").
			WithDetails(map[string]any{"status": result.Current.Status})
	}

	request := result.Current
	volunteer := s.lookupVolunteer(ctx, volunteerID)
	outcomes := s.notifyParties(ctx, request, volunteer,
		fmt.Sprintf("Your %s request has been accepted. Volunteer %s is on the way.", request.Type, volunteerName(volunteer)),
		fmt.Sprintf("You accepted the %s request from %s. Requester contact: %s.", request.Type, request.Name, request.Contact),
	)
	return &TransitionResult{Request: request, Notifications: outcomes}, nil
}

func (s *service) Resolve(ctx context.Context, requestID, volunteerID uuid.UUID) (*TransitionResult, error) {
	if err := requireIDs(requestID, volunteerID); err != nil {
		return nil, err
	}

	result, err := s.repo.Resolve(ctx, requestID, volunteerID, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve request")
	}
	if !result.Updated {
		return nil, classifyAssigneeFailure(result, volunteerID, "request cannot be resolved")
	}

	request := result.Current
	volunteer := s.lookupVolunteer(ctx, volunteerID)
	outcomes := s.notifyParties(ctx, request, volunteer,
		fmt.Sprintf("Your %s request has been resolved. Stay safe.", request.Type),
		fmt.Sprintf("The %s request from %s is marked resolved. Thank you.", request.Type, request.Name),
	)
	return &TransitionResult{Request: request, Notifications: outcomes}, nil
}

func (s *service) Escalate(ctx context.Context, requestID, volunteerID uuid.UUID) (*TransitionResult, error) {
	if err := requireIDs(requestID, volunteerID); err != nil {
		return nil, err
	}

	result, err := s.repo.Escalate(ctx, requestID, volunteerID, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "escalate request")
	}
	if !result.Updated {
		return nil, classifyAssigneeFailure(result, volunteerID, "request cannot be escalated")
	}

	request := result.Current
	volunteer := s.lookupVolunteer(ctx, volunteerID)

	outcomes := make([]notify.Outcome, 0, 4)
	if s.oversightEmail != "" {
		outcomes = append(outcomes, s.notifier.SendEmail(ctx,
			s.oversightEmail,
			fmt.Sprintf("Escalated relief request: %s (%s)", request.Type, request.Urgency),
			oversightBody(request, volunteer),
		))
	}
	outcomes = append(outcomes, s.notifyParties(ctx, request, volunteer,
		fmt.Sprintf("Your %s request has been escalated for priority response.", request.Type),
		fmt.Sprintf("The %s request from %s is escalated. Oversight has been notified.", request.Type, request.Name),
	)...)
	if s.alerts != nil {
		outcomes = append(outcomes, s.alerts.BroadcastEscalation(ctx, request)...)
	}
	return &TransitionResult{Request: request, Notifications: outcomes}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listRequestsParams{Limit: pagination.NormalizeLimit(params.Limit)}
	if strings.TrimSpace(params.Status) != "" {
		status, err := enums.ParseRequestStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.Status = &status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) ListOpen(ctx context.Context, limit int) ([]models.Request, error) {
	rows, err := s.repo.ListOpen(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open requests")
	}
	return rows, nil
}

// notifyParties sends the per-transition messages to the requester and the
// assigned volunteer. Best-effort on both legs.
func (s *service) notifyParties(ctx context.Context, request *models.Request, volunteer *models.Volunteer, requesterMsg, volunteerMsg string) []notify.Outcome {
	outcomes := make([]notify.Outcome, 0, 2)
	outcomes = append(outcomes, s.notifier.Notify(ctx, request.Contact, requesterMsg))
	if volunteer != nil {
		outcomes = append(outcomes, s.notifier.Notify(ctx, volunteer.Contact, volunteerMsg))
	}
	return outcomes
}

func (s *service) lookupVolunteer(ctx context.Context, volunteerID uuid.UUID) *models.Volunteer {
	if s.volunteers == nil {
		return nil
	}
	volunteer, err := s.volunteers.FindByID(ctx, volunteerID)
	if err != nil {
		s.logg.Error(ctx, "volunteer lookup failed", err)
		return nil
	}
	return volunteer
}

func requireIDs(requestID, volunteerID uuid.UUID) error {
	if requestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if volunteerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "volunteer id required")
	}
	return nil
}

// classifyAssigneeFailure turns a lost Resolve/Escalate CAS into a typed
// error: missing row, foreign assignee, or a status outside the allowed set.
func classifyAssigneeFailure(result transitionResult, volunteerID uuid.UUID, message string) error {
	if result.Current == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
	}
	assignee := result.Current.AssignedVolunteerID
	if assignee != nil && *assignee != volunteerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "request assigned to another volunteer")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, message).
		WithDetails(map[string]any{"status": result.Current.Status})
}

func volunteerName(volunteer *models.Volunteer) string {
	if volunteer == nil {
		return "a volunteer"
	}
	return volunteer.Name
}

func oversightBody(request *models.Request, volunteer *models.Volunteer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A relief request has been escalated and needs oversight.\n\n")
	fmt.Fprintf(&b, "Request: %s\n", request.Type)
	fmt.Fprintf(&b, "Urgency: %s\n", request.Urgency)
	fmt.Fprintf(&b, "Requester: %s (%s)\n", request.Name, request.Contact)
	if request.Description != "" {
		fmt.Fprintf(&b, "Details: %s\n", request.Description)
	}
	fmt.Fprintf(&b, "Escalated by: %s\n", volunteerName(volunteer))
	fmt.Fprintf(&b, "Location: https://www.google.com/maps?q=%f,%f\n", request.Latitude, request.Longitude)
	return b.String()
}
