package requests

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rakshamitra/relief-backend/internal/notify"
	"github.com/rakshamitra/relief-backend/pkg/db/models"
	"github.com/rakshamitra/relief-backend/pkg/enums"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
	"github.com/rakshamitra/relief-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn   func(ctx context.Context, request *models.Request) error
	findFn     func(ctx context.Context, id uuid.UUID) (*models.Request, error)
	acceptFn   func(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error)
	resolveFn  func(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error)
	escalateFn func(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error)
	listFn     func(ctx context.Context, params listRequestsParams) ([]models.Request, *pagination.Cursor, error)
}

func (f *fakeRepository) Create(ctx context.Context, request *models.Request) error {
	if f.createFn != nil {
		return f.createFn(ctx, request)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	if f.findFn != nil {
		return f.findFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeRepository) Accept(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error) {
	if f.acceptFn != nil {
		return f.acceptFn(ctx, requestID, volunteerID, now)
	}
	return transitionResult{}, nil
}

func (f *fakeRepository) Resolve(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, requestID, volunteerID, now)
	}
	return transitionResult{}, nil
}

func (f *fakeRepository) Escalate(ctx context.Context, requestID, volunteerID uuid.UUID, now time.Time) (transitionResult, error) {
	if f.escalateFn != nil {
		return f.escalateFn(ctx, requestID, volunteerID, now)
	}
	return transitionResult{}, nil
}

func (f *fakeRepository) List(ctx context.Context, params listRequestsParams) ([]models.Request, *pagination.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) ListOpen(ctx context.Context, limit int) ([]models.Request, error) {
	return nil, nil
}

type fakeNotifier struct {
	notifyCalls []string
	emailCalls  []string
	outcome     notify.Outcome
}

func (f *fakeNotifier) Notify(ctx context.Context, contact, body string) notify.Outcome {
	f.notifyCalls = append(f.notifyCalls, contact)
	out := f.outcome
	out.Target = contact
	return out
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, contacts []string, body string) ([]notify.Outcome, error) {
	outcomes := make([]notify.Outcome, 0, len(contacts))
	for _, contact := range contacts {
		outcomes = append(outcomes, f.Notify(ctx, contact, body))
	}
	return outcomes, nil
}

func (f *fakeNotifier) SendEmail(ctx context.Context, to, subject, body string) notify.Outcome {
	f.emailCalls = append(f.emailCalls, to)
	return notify.Outcome{Channel: enums.ChannelEmail, Target: to, Status: notify.OutcomeSent}
}

func (f *fakeNotifier) WhatsAppLink(contact, message string) string { return "" }

func (f *fakeNotifier) BulkWhatsAppLinks(contacts []string, message string) []notify.Link {
	return nil
}

type fakeDirectory struct {
	volunteer *models.Volunteer
	err       error
}

func (f *fakeDirectory) FindByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	return f.volunteer, f.err
}

type fakeBroadcaster struct {
	calls int
}

func (f *fakeBroadcaster) BroadcastEscalation(ctx context.Context, request *models.Request) []notify.Outcome {
	f.calls++
	return []notify.Outcome{{Channel: enums.ChannelSMS, Status: notify.OutcomeSent}}
}

func newRequestService(t *testing.T, opts Options) Service {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logger.New(logger.Options{ServiceName: "requests-test", Output: io.Discard})
	}
	if opts.Notifier == nil {
		opts.Notifier = &fakeNotifier{outcome: notify.Outcome{Channel: enums.ChannelSMS, Status: notify.OutcomeSent}}
	}
	svc, err := NewService(opts)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func assignedRequest(assignee uuid.UUID) *models.Request {
	return &models.Request{
		ID:                  uuid.New(),
		Name:                "Asha",
		Contact:             "+919876543210",
		Type:                "rescue",
		Urgency:             enums.UrgencyHigh,
		Status:              enums.RequestStatusAssigned,
		AssignedVolunteerID: &assignee,
	}
}

func TestAccept_NotifiesBothParties(t *testing.T) {
	volunteerID := uuid.New()
	notifier := &fakeNotifier{outcome: notify.Outcome{Channel: enums.ChannelSMS, Status: notify.OutcomeSent}}
	repo := &fakeRepository{
		acceptFn: func(ctx context.Context, requestID, vID uuid.UUID, now time.Time) (transitionResult, error) {
			request := assignedRequest(vID)
			request.ID = requestID
			return transitionResult{Updated: true, Current: request}, nil
		},
	}
	svc := newRequestService(t, Options{
		Repo:       repo,
		Notifier:   notifier,
		Volunteers: &fakeDirectory{volunteer: &models.Volunteer{ID: volunteerID, Name: "Ravi", Contact: "+919123456789"}},
	})

	result, err := svc.Accept(context.Background(), uuid.New(), volunteerID)
	if err != nil {
		t.Fatalf("unexpected accept error: %v", err)
	}
	if result.Request.Status != enums.RequestStatusAssigned {
		t.Fatalf("expected assigned status, got %s", result.Request.Status)
	}
	if len(notifier.notifyCalls) != 2 {
		t.Fatalf("expected requester and volunteer notified, got %v", notifier.notifyCalls)
	}
	if len(result.Notifications) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(result.Notifications))
	}
}

func TestAccept_LostRaceIsConflict(t *testing.T) {
	other := uuid.New()
	repo := &fakeRepository{
		acceptFn: func(ctx context.Context, requestID, vID uuid.UUID, now time.Time) (transitionResult, error) {
			return transitionResult{Updated: false, Current: assignedRequest(other)}, nil
		},
	}
	svc := newRequestService(t, Options{Repo: repo})

	_, err := svc.Accept(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAccept_MissingRequestIsNotFound(t *testing.T) {
	repo := &fakeRepository{
		acceptFn: func(ctx context.Context, requestID, vID uuid.UUID, now time.Time) (transitionResult, error) {
			return transitionResult{}, nil
		},
	}
	svc := newRequestService(t, Options{Repo: repo})

	_, err := svc.Accept(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolve_ByNonAssigneeIsForbidden(t *testing.T) {
	assignee := uuid.New()
	repo := &fakeRepository{
		resolveFn: func(ctx context.Context, requestID, vID uuid.UUID, now time.Time) (transitionResult, error) {
			return transitionResult{Updated: false, Current: assignedRequest(assignee)}, nil
		},
	}
	svc := newRequestService(t, Options{Repo: repo})

	_, err := svc.Resolve(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestResolve_TwiceIsStateConflict(t *testing.T) {
	assignee := uuid.New()
	resolved := assignedRequest(assignee)
	resolved.Status = enums.RequestStatusResolved
	repo := &fakeRepository{
		resolveFn: func(ctx context.Context, requestID, vID uuid.UUID, now time.Time) (transitionResult, error) {
			return transitionResult{Updated: false, Current: resolved}, nil
		},
	}
	svc := newRequestService(t, Options{Repo: repo})

	_, err := svc.Resolve(context.Background(), uuid.New(), assignee)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestEscalate_WrongStatusIsStateConflict(t *testing.T) {
	assignee := uuid.New()
	for _, status := range []enums.RequestStatus{enums.RequestStatusPending, enums.RequestStatusInProgress, enums.RequestStatusResolved} {
		current := assignedRequest(assignee)
		current.Status = status
		if status == enums.RequestStatusPending {
			current.AssignedVolunteerID = nil
		}
		repo := &fakeRepository{
			escalateFn: func(ctx context.Context, requestID, vID uuid.UUID, now time.Time) (transitionResult, error) {
				return transitionResult{Updated: false, Current: current}, nil
			},
		}
		svc := newRequestService(t, Options{Repo: repo})

		_, err := svc.Escalate(context.Background(), uuid.New(), assignee)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("escalate from %s: expected state conflict, got %v", status, err)
		}
	}
}

func TestEscalate_TriggersOversightEmailAndBroadcast(t *testing.T) {
	volunteerID := uuid.New()
	notifier := &fakeNotifier{outcome: notify.Outcome{Channel: enums.ChannelSMS, Status: notify.OutcomeSent}}
	broadcaster := &fakeBroadcaster{}
	repo := &fakeRepository{
		escalateFn: func(ctx context.Context, requestID, vID uuid.UUID, now time.Time) (transitionResult, error) {
			request := assignedRequest(vID)
			request.Status = enums.RequestStatusInProgress
			return transitionResult{Updated: true, Current: request}, nil
		},
	}
	svc := newRequestService(t, Options{
		Repo:           repo,
		Notifier:       notifier,
		Volunteers:     &fakeDirectory{volunteer: &models.Volunteer{ID: volunteerID, Name: "Ravi", Contact: "+919123456789"}},
		Alerts:         broadcaster,
		OversightEmail: "oversight@example.gov",
	})

	result, err := svc.Escalate(context.Background(), uuid.New(), volunteerID)
	if err != nil {
		t.Fatalf("unexpected escalate error: %v", err)
	}
	if result.Request.Status != enums.RequestStatusInProgress {
		t.Fatalf("expected in_progress, got %s", result.Request.Status)
	}
	if len(notifier.emailCalls) != 1 || notifier.emailCalls[0] != "oversight@example.gov" {
		t.Fatalf("expected oversight email, got %v", notifier.emailCalls)
	}
	if broadcaster.calls != 1 {
		t.Fatalf("expected one broadcast, got %d", broadcaster.calls)
	}
	if len(result.Notifications) != 4 {
		t.Fatalf("expected email + 2 sms + broadcast outcomes, got %d", len(result.Notifications))
	}
}

func TestEscalate_NotificationFailuresDoNotFailTransition(t *testing.T) {
	volunteerID := uuid.New()
	notifier := &fakeNotifier{outcome: notify.Outcome{Channel: enums.ChannelSMS, Status: notify.OutcomeFailed, Reason: "provider down"}}
	repo := &fakeRepository{
		escalateFn: func(ctx context.Context, requestID, vID uuid.UUID, now time.Time) (transitionResult, error) {
			request := assignedRequest(vID)
			request.Status = enums.RequestStatusInProgress
			return transitionResult{Updated: true, Current: request}, nil
		},
	}
	svc := newRequestService(t, Options{Repo: repo, Notifier: notifier})

	result, err := svc.Escalate(context.Background(), uuid.New(), volunteerID)
	if err != nil {
		t.Fatalf("failed notifications must not fail the transition: %v", err)
	}
	for _, outcome := range result.Notifications {
		if outcome.Status != notify.OutcomeFailed {
			t.Fatalf("expected failed outcome diagnostics, got %s", outcome.Status)
		}
	}
}

func TestCreate_NormalizesPhoneContact(t *testing.T) {
	var created *models.Request
	repo := &fakeRepository{
		createFn: func(ctx context.Context, request *models.Request) error {
			created = request
			return nil
		},
	}
	svc := newRequestService(t, Options{Repo: repo})

	_, err := svc.Create(context.Background(), CreateParams{
		Name:    "Asha",
		Contact: "98765 43210",
		Type:    "rescue",
		Urgency: "high",
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if created.Contact != "+919876543210" {
		t.Fatalf("expected normalized contact, got %q", created.Contact)
	}
	if created.Urgency != enums.UrgencyHigh {
		t.Fatalf("expected parsed urgency, got %s", created.Urgency)
	}
	if created.Status != enums.RequestStatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
}

func TestCreate_RejectsInvalidUrgency(t *testing.T) {
	svc := newRequestService(t, Options{Repo: &fakeRepository{}})

	_, err := svc.Create(context.Background(), CreateParams{
		Name:    "Asha",
		Contact: "9876543210",
		Type:    "rescue",
		Urgency: "apocalyptic",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	svc := newRequestService(t, Options{Repo: &fakeRepository{}})

	_, err := svc.List(context.Background(), ListParams{Status: "bogus"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestList_RepoFailureIsDependencyError(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listRequestsParams) ([]models.Request, *pagination.Cursor, error) {
			return nil, nil, errors.New("connection reset")
		},
	}
	svc := newRequestService(t, Options{Repo: repo})

	_, err := svc.List(context.Background(), ListParams{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
