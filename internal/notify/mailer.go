// Package notify delivers copies of in-app notifications by email.
package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

// Mailer sends plain-text messages.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends through an authenticated SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer for host:port.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// NopMailer drops every message. Used when SMTP is not configured.
type NopMailer struct {
	Log *zap.Logger
}

func (n NopMailer) Send(_ context.Context, to, subject, _ string) error {
	if n.Log != nil {
		n.Log.Debug("mail disabled, dropping message", zap.String("to", to), zap.String("subject", subject))
	}
	return nil
}
