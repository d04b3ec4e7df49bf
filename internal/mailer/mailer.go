package mailer

import (
	"fmt"
	"net/smtp"

	"decant-store/internal/config"
	"decant-store/internal/model"

	"github.com/rs/zerolog"
)

// Mailer sends contact-form messages to the shop address.
type Mailer struct {
	cfg    config.SMTPConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger zerolog.Logger
}

// New creates a mailer from SMTP configuration.
func New(cfg config.SMTPConfig, logger zerolog.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		send:   smtp.SendMail,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

// Send delivers a contact-form message. Absent credentials surface as a
// configuration error, never a silent drop.
func (m *Mailer) Send(name, email, subject, body string) error {
	if !m.cfg.Configured() {
		return model.ErrMailNotConfigured
	}

	if subject == "" {
		subject = "New message from the shop contact form"
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n"+
			"New contact-form message\r\n\r\nName: %s\r\nEmail: %s\r\n\r\nMessage:\r\n%s\r\n",
		m.cfg.Username, m.cfg.To, subject, name, email, body,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := m.send(addr, auth, m.cfg.Username, []string{m.cfg.To}, []byte(message)); err != nil {
		m.logger.Error().Err(err).Str("to", m.cfg.To).Msg("failed to send contact email")
		return fmt.Errorf("failed to send contact email: %w", err)
	}

	m.logger.Info().Str("to", m.cfg.To).Msg("contact email sent")

	return nil
}
