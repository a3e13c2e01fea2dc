// Package mailer delivers notification emails over SMTP.
// Nil-safe: when not configured, sends are logged and treated as delivered.
package mailer

import (
	"context"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender sends multipart (HTML + plain text) email via SMTP.
type SMTPSender struct {
	client *mail.Client
	from   string
	log    *slog.Logger
}

// New creates an SMTP sender. Returns nil if cfg.Host is empty
// (delivery disabled).
func New(cfg Config, logger *slog.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPSender{
		client: client,
		from:   cfg.From,
		log:    logger,
	}, nil
}

// Send delivers one message. The plain-text body is the fallback part; the
// HTML body is the preferred alternative. A nil sender logs and reports
// success so development environments run without an SMTP server.
func (s *SMTPSender) Send(ctx context.Context, to, subject, html, text string) error {
	if s == nil {
		slog.Info("mail delivery disabled, send skipped", "to", to, "subject", subject)
		return nil
	}

	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return err
	}
	if err := m.To(to); err != nil {
		return err
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, text)
	m.AddAlternativeString(mail.TypeTextHTML, html)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return err
	}

	s.log.Info("mail sent", "to", to, "subject", subject)
	return nil
}
