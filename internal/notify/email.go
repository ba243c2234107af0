package notify

import (
	"context"

	gomail "gopkg.in/gomail.v2"

	"github.com/rakshamitra/relief-backend/pkg/config"
)

// SMTPSender delivers plain-text email over SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a sender from SMTP settings. Returns nil when the
// settings are absent so the gateway skips the channel.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	if !cfg.Configured() {
		return nil
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	message := gomail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)
	return s.dialer.DialAndSend(message)
}
