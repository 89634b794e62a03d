// Package mailer delivers contact-form messages over SMTP.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"chronicle/internal/config"
	"chronicle/internal/middleware"

	"github.com/jordan-wright/email"
)

// Mailer delivers a contact-form submission to the site owner.
type Mailer interface {
	SendContactMessage(name, from, message string) error
}

// SMTPSender sends mail through the configured SMTP relay.
type SMTPSender struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewFromConfig returns an SMTP-backed Mailer, or nil when SMTP delivery is
// not configured; callers treat a nil Mailer as display-only contact handling.
func NewFromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" || cfg.ContactEmail == "" {
		return nil
	}
	return &SMTPSender{cfg: cfg, logger: middleware.Logger}
}

// SendContactMessage forwards a reader's message to the configured contact address.
func (s *SMTPSender) SendContactMessage(name, from, message string) error {
	e := email.NewEmail()
	e.From = s.cfg.SMTPUsername
	e.To = []string{s.cfg.ContactEmail}
	e.ReplyTo = []string{from}
	e.Subject = fmt.Sprintf("New contact message from %s", name)
	e.Text = []byte(fmt.Sprintf("From: %s <%s>\n\n%s\n", name, from, message))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Error("failed to send contact message", slog.String("error", err.Error()))
		return fmt.Errorf("failed to send contact message: %w", err)
	}

	s.logger.Info("contact message delivered", slog.String("to", s.cfg.ContactEmail))
	return nil
}
