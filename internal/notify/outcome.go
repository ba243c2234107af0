package notify

import "github.com/rakshamitra/relief-backend/pkg/enums"

// OutcomeStatus classifies what happened to a single delivery attempt.
type OutcomeStatus string

const (
	OutcomeSent    OutcomeStatus = "sent"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome records the result of one delivery attempt. Transitions report
// these as diagnostics; a failed outcome never fails the caller.
type Outcome struct {
	Channel      enums.NotificationChannel `json:"channel"`
	Target       string                    `json:"target"`
	Status       OutcomeStatus             `json:"status"`
	Reference    string                    `json:"reference,omitempty"`
	Reason       string                    `json:"reason,omitempty"`
	ProviderCode int                       `json:"provider_code,omitempty"`
}

func sent(channel enums.NotificationChannel, target, reference string) Outcome {
	return Outcome{Channel: channel, Target: target, Status: OutcomeSent, Reference: reference}
}

func skipped(channel enums.NotificationChannel, target, reason string) Outcome {
	return Outcome{Channel: channel, Target: target, Status: OutcomeSkipped, Reason: reason}
}

func failed(channel enums.NotificationChannel, target, reason string, providerCode int) Outcome {
	return Outcome{Channel: channel, Target: target, Status: OutcomeFailed, Reason: reason, ProviderCode: providerCode}
}
