package notify

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rakshamitra/relief-backend/pkg/enums"
	"github.com/rakshamitra/relief-backend/pkg/logger"
)

type fakeSMS struct {
	calls []string
	err   error
}

func (f *fakeSMS) Send(ctx context.Context, to, body string) (string, error) {
	f.calls = append(f.calls, to)
	if f.err != nil {
		return "", f.err
	}
	return "SM123", nil
}

type fakeEmail struct {
	calls []string
	err   error
}

func (f *fakeEmail) Send(ctx context.Context, to, subject, body string) error {
	f.calls = append(f.calls, to)
	return f.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "notify-test", Output: io.Discard})
}

func newTestService(t *testing.T, opts Options) Service {
	t.Helper()
	opts.Logger = testLogger()
	svc, err := NewService(opts)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestNotify_SendsToNormalizedNumber(t *testing.T) {
	sms := &fakeSMS{}
	svc := newTestService(t, Options{SMS: sms})

	outcome := svc.Notify(context.Background(), "98765 43210", "flood relief update")

	if outcome.Status != OutcomeSent {
		t.Fatalf("expected sent, got %s (%s)", outcome.Status, outcome.Reason)
	}
	if outcome.Reference != "SM123" {
		t.Fatalf("expected provider reference, got %q", outcome.Reference)
	}
	if len(sms.calls) != 1 || sms.calls[0] != "+919876543210" {
		t.Fatalf("unexpected provider calls: %v", sms.calls)
	}
}

func TestNotify_TrialModeSkipsUnverifiedWithoutProviderCall(t *testing.T) {
	sms := &fakeSMS{}
	svc := newTestService(t, Options{
		SMS:             sms,
		TrialMode:       true,
		VerifiedNumbers: []string{"9876543210"},
	})

	verified := svc.Notify(context.Background(), "+919876543210", "hi")
	if verified.Status != OutcomeSent {
		t.Fatalf("expected verified number sent, got %s (%s)", verified.Status, verified.Reason)
	}

	unverified := svc.Notify(context.Background(), "9123456789", "hi")
	if unverified.Status != OutcomeSkipped {
		t.Fatalf("expected unverified skipped, got %s", unverified.Status)
	}
	if unverified.Reason != "unverified destination" {
		t.Fatalf("unexpected skip reason %q", unverified.Reason)
	}
	if len(sms.calls) != 1 {
		t.Fatalf("provider must not be called for unverified numbers, calls: %v", sms.calls)
	}
}

func TestNotify_NonPhoneContactRoutesToEmail(t *testing.T) {
	email := &fakeEmail{}
	svc := newTestService(t, Options{SMS: &fakeSMS{}, Email: email})

	outcome := svc.Notify(context.Background(), "requester@example.com", "update")

	if outcome.Channel != enums.ChannelEmail {
		t.Fatalf("expected email channel, got %s", outcome.Channel)
	}
	if outcome.Status != OutcomeSent {
		t.Fatalf("expected sent, got %s (%s)", outcome.Status, outcome.Reason)
	}
	if len(email.calls) != 1 || email.calls[0] != "requester@example.com" {
		t.Fatalf("unexpected email calls: %v", email.calls)
	}
}

func TestNotify_NonPhoneContactSkippedWithoutEmailSender(t *testing.T) {
	svc := newTestService(t, Options{SMS: &fakeSMS{}})

	outcome := svc.Notify(context.Background(), "requester@example.com", "update")

	if outcome.Status != OutcomeSkipped || outcome.Reason != "non-phone contact" {
		t.Fatalf("expected non-phone skip, got %s (%s)", outcome.Status, outcome.Reason)
	}
}

func TestNotify_ProviderFailureBecomesFailedOutcome(t *testing.T) {
	sms := &fakeSMS{err: errors.New("provider unreachable")}
	svc := newTestService(t, Options{SMS: sms})

	outcome := svc.Notify(context.Background(), "9876543210", "update")

	if outcome.Status != OutcomeFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
	if !strings.Contains(outcome.Reason, "provider unreachable") {
		t.Fatalf("expected provider reason, got %q", outcome.Reason)
	}
}

func TestNotifyMany_ContinuesPastFailures(t *testing.T) {
	sms := &fakeSMS{}
	svc := newTestService(t, Options{SMS: sms})

	outcomes, errs := svc.NotifyMany(context.Background(), []string{"9876543210", "bad-contact", "9123456789"}, "evacuate now")

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Status != OutcomeSent || outcomes[2].Status != OutcomeSent {
		t.Fatalf("expected phone contacts sent, got %s / %s", outcomes[0].Status, outcomes[2].Status)
	}
	if outcomes[1].Status != OutcomeSkipped {
		t.Fatalf("expected non-phone contact skipped, got %s", outcomes[1].Status)
	}
	if errs != nil {
		t.Fatalf("skips must not aggregate errors, got %v", errs)
	}
	if len(sms.calls) != 2 {
		t.Fatalf("expected 2 provider calls, got %d", len(sms.calls))
	}
}

func TestNotifyMany_AggregatesFailureDiagnostics(t *testing.T) {
	sms := &fakeSMS{err: errors.New("throttled")}
	svc := newTestService(t, Options{SMS: sms})

	outcomes, errs := svc.NotifyMany(context.Background(), []string{"9876543210", "9123456789"}, "hi")

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Status != OutcomeFailed {
			t.Fatalf("expected all failed, got %s", outcome.Status)
		}
	}
	if errs == nil {
		t.Fatal("expected aggregated diagnostics error")
	}
}

func TestSendEmail_SkippedWhenUnconfigured(t *testing.T) {
	svc := newTestService(t, Options{})

	outcome := svc.SendEmail(context.Background(), "gov@example.com", "escalation", "details")

	if outcome.Status != OutcomeSkipped || outcome.Reason != "email sender not configured" {
		t.Fatalf("expected configured-sender skip, got %s (%s)", outcome.Status, outcome.Reason)
	}
}

func TestWhatsAppLink_EncodesMessage(t *testing.T) {
	svc := newTestService(t, Options{})

	link := svc.WhatsAppLink("98765 43210", "Need rescue boats & food")

	if !strings.HasPrefix(link, "https://wa.me/919876543210?") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if !strings.Contains(link, "text=Need+rescue+boats+%26+food") {
		t.Fatalf("expected encoded message, got %s", link)
	}
}

func TestBulkWhatsAppLinks_OnePerContact(t *testing.T) {
	svc := newTestService(t, Options{})

	links := svc.BulkWhatsAppLinks([]string{"9876543210", "+14155550123"}, "hello")

	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if !strings.Contains(links[0].URL, "919876543210") {
		t.Fatalf("unexpected first link: %s", links[0].URL)
	}
	if !strings.Contains(links[1].URL, "14155550123") {
		t.Fatalf("unexpected second link: %s", links[1].URL)
	}
}
