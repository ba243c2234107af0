package notify

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rakshamitra/relief-backend/pkg/config"
)

// TwilioSender sends SMS through the Twilio REST API with a per-call timeout
// and a small fibonacci retry budget for transient provider failures.
type TwilioSender struct {
	client      *twilio.RestClient
	fromNumber  string
	callTimeout time.Duration
	maxRetries  uint64
}

// NewTwilioSender builds a sender from provider credentials. Returns nil when
// the credentials are absent so the gateway skips the channel.
func NewTwilioSender(cfg config.SMSConfig) *TwilioSender {
	if !cfg.Configured() {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{
		client:      client,
		fromNumber:  cfg.FromNumber,
		callTimeout: cfg.CallTimeout,
		maxRetries:  uint64(max(cfg.MaxRetries, 0)),
	}
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	callCtx := ctx
	if t.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.callTimeout)
		defer cancel()
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(body)

	var reference string
	backoff := retry.WithMaxRetries(t.maxRetries, retry.NewFibonacci(250*time.Millisecond))
	err := retry.Do(callCtx, backoff, func(ctx context.Context) error {
		message, err := t.client.Api.CreateMessage(params)
		if err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		if message.Sid != nil {
			reference = *message.Sid
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return reference, nil
}

// isTransient treats provider 5xx and throttling as retryable. Rejections
// such as invalid or unverified numbers fail immediately.
func isTransient(err error) bool {
	var restErr *twilioclient.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Status >= http.StatusInternalServerError ||
			restErr.Status == http.StatusTooManyRequests
	}
	return true
}

// providerErrorCode extracts Twilio's numeric error code for diagnostics.
func providerErrorCode(err error) int {
	var restErr *twilioclient.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Code
	}
	return 0
}
