package notify

import (
	"context"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/rakshamitra/relief-backend/pkg/config"
	"github.com/rakshamitra/relief-backend/pkg/enums"
	pkgerrors "github.com/rakshamitra/relief-backend/pkg/errors"
	"github.com/rakshamitra/relief-backend/pkg/logger"
	"github.com/rakshamitra/relief-backend/pkg/metrics"
	"github.com/rakshamitra/relief-backend/pkg/phone"
)

const defaultEmailSubject = "Relief coordination update"

// Service fans messages out to requesters and volunteers. Delivery is
// best-effort: every attempt yields an Outcome and none of them fail the
// calling transition.
type Service interface {
	Notify(ctx context.Context, contact, body string) Outcome
	NotifyMany(ctx context.Context, contacts []string, body string) ([]Outcome, error)
	SendEmail(ctx context.Context, to, subject, body string) Outcome
	WhatsAppLink(contact, message string) string
	BulkWhatsAppLinks(contacts []string, message string) []Link
}

// Options wires the gateway's senders and gating rules. SMS and Email may be
// nil; their channels are then skipped rather than failed.
type Options struct {
	SMS             SMSSender
	Email           EmailSender
	TrialMode       bool
	VerifiedNumbers []string
	CountryCode     string
	BulkSendDelay   time.Duration
	Metrics         *metrics.NotificationMetrics
	Logger          *logger.Logger
}

// FromConfig copies the gating rules out of the SMS settings.
func FromConfig(cfg config.SMSConfig, sms SMSSender, email EmailSender, m *metrics.NotificationMetrics, logg *logger.Logger) Options {
	return Options{
		SMS:             sms,
		Email:           email,
		TrialMode:       cfg.TrialMode,
		VerifiedNumbers: cfg.VerifiedNumbers,
		CountryCode:     cfg.CountryCode,
		BulkSendDelay:   cfg.BulkSendDelay,
		Metrics:         m,
		Logger:          logg,
	}
}

type service struct {
	sms        SMSSender
	email      EmailSender
	trialMode  bool
	verified   map[string]struct{}
	normalizer phone.Normalizer
	bulkDelay  time.Duration
	metrics    *metrics.NotificationMetrics
	logg       *logger.Logger
}

// NewService wires gateway dependencies.
func NewService(opts Options) (Service, error) {
	if opts.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notify logger required")
	}

	normalizer := phone.Normalizer{CountryCode: opts.CountryCode}
	verified := make(map[string]struct{}, len(opts.VerifiedNumbers))
	for _, number := range opts.VerifiedNumbers {
		if trimmed := strings.TrimSpace(number); trimmed != "" {
			verified[normalizer.Normalize(trimmed)] = struct{}{}
		}
	}

	return &service{
		sms:        opts.SMS,
		email:      opts.Email,
		trialMode:  opts.TrialMode,
		verified:   verified,
		normalizer: normalizer,
		bulkDelay:  opts.BulkSendDelay,
		metrics:    opts.Metrics,
		logg:       opts.Logger,
	}, nil
}

func (s *service) Notify(ctx context.Context, contact, body string) Outcome {
	outcome := s.deliver(ctx, contact, body)
	s.record(ctx, outcome)
	return outcome
}

// NotifyMany sends sequentially with the configured inter-message delay. It
// never aborts on a failed delivery; the returned error aggregates failure
// causes for logging only.
func (s *service) NotifyMany(ctx context.Context, contacts []string, body string) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(contacts))
	var errs error
	for i, contact := range contacts {
		if i > 0 && s.bulkDelay > 0 {
			if err := sleepCtx(ctx, s.bulkDelay); err != nil {
				outcome := skipped(enums.ChannelSMS, contact, "context canceled")
				s.record(ctx, outcome)
				outcomes = append(outcomes, outcome)
				errs = multierr.Append(errs, err)
				continue
			}
		}
		outcome := s.deliver(ctx, contact, body)
		s.record(ctx, outcome)
		outcomes = append(outcomes, outcome)
		if outcome.Status == OutcomeFailed {
			errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeDependency, outcome.Reason))
		}
	}
	return outcomes, errs
}

// SendEmail delivers to an explicit address, bypassing the phone heuristics.
// Used for the oversight mailbox on escalation.
func (s *service) SendEmail(ctx context.Context, to, subject, body string) Outcome {
	outcome := s.deliverEmail(ctx, to, subject, body)
	s.record(ctx, outcome)
	return outcome
}

func (s *service) deliver(ctx context.Context, contact, body string) Outcome {
	trimmed := strings.TrimSpace(contact)
	if trimmed == "" {
		return skipped(enums.ChannelSMS, contact, "empty contact")
	}

	if !phone.LooksLikePhoneNumber(trimmed) {
		if s.email == nil {
			return skipped(enums.ChannelEmail, trimmed, "non-phone contact")
		}
		return s.deliverEmail(ctx, trimmed, defaultEmailSubject, body)
	}

	to := s.normalizer.Normalize(trimmed)
	if s.trialMode {
		if _, ok := s.verified[to]; !ok {
			return skipped(enums.ChannelSMS, to, "unverified destination")
		}
	}
	if s.sms == nil {
		return skipped(enums.ChannelSMS, to, "sms sender not configured")
	}

	start := time.Now()
	reference, err := s.sms.Send(ctx, to, body)
	s.metrics.ObserveProviderLatency(string(enums.ChannelSMS), time.Since(start))
	if err != nil {
		return failed(enums.ChannelSMS, to, err.Error(), providerErrorCode(err))
	}
	return sent(enums.ChannelSMS, to, reference)
}

func (s *service) deliverEmail(ctx context.Context, to, subject, body string) Outcome {
	if s.email == nil {
		return skipped(enums.ChannelEmail, to, "email sender not configured")
	}

	start := time.Now()
	err := s.email.Send(ctx, to, subject, body)
	s.metrics.ObserveProviderLatency(string(enums.ChannelEmail), time.Since(start))
	if err != nil {
		return failed(enums.ChannelEmail, to, err.Error(), 0)
	}
	return sent(enums.ChannelEmail, to, "")
}

func (s *service) record(ctx context.Context, outcome Outcome) {
	s.metrics.IncOutcome(string(outcome.Channel), string(outcome.Status))

	fields := map[string]any{
		"channel": string(outcome.Channel),
		"target":  outcome.Target,
		"status":  string(outcome.Status),
	}
	if outcome.Reason != "" {
		fields["reason"] = outcome.Reason
	}
	logCtx := s.logg.WithFields(ctx, fields)
	switch outcome.Status {
	case OutcomeFailed:
		s.logg.Warn(logCtx, "notification delivery failed")
	default:
		s.logg.Info(logCtx, "notification delivery")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
