package services

import (
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail through the configured SMTP relay.
// A send failure fails the request; there is no retry or queueing.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host, port, user, password, from string) (*Mailer, error) {
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port %q: %w", port, err)
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, p, user, password),
		from:   from,
	}, nil
}

// SendPasswordReset mails the raw reset token embedded in a frontend URL.
// The raw value is never persisted; only its hash lives in the user record.
func (m *Mailer) SendPasswordReset(to, resetURL string) error {
	msg := BuildPasswordResetMessage(m.from, to, resetURL)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// BuildPasswordResetMessage composes the reset email. Split out so the
// message content is testable without an SMTP connection.
func BuildPasswordResetMessage(from, to, resetURL string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your Melodia password")
	msg.SetBody("text/html", fmt.Sprintf(
		`<p>You requested a password reset for your Melodia admin account.</p>
<p><a href="%s">Reset your password</a></p>
<p>This link expires in 5 minutes. If you did not request a reset, you can ignore this email.</p>`,
		resetURL,
	))
	return msg
}
