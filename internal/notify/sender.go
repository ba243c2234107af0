package notify

import "context"

// SMSSender delivers a single text message and returns the provider's
// message reference.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// EmailSender delivers a single plain-text email. A nil sender means the
// email channel is not configured and deliveries are skipped.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
