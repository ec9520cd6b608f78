package mail

import (
	"fmt"
	"net/smtp"

	"friendfinder/backend/internal/config"
	"friendfinder/backend/internal/logger"
)

// Mailer delivers a single message out-of-band. Delivery failures are
// per-request: logged by callers, never fatal.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a configured SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewFromConfig returns an SMTP mailer when SMTP is configured, otherwise a
// logging mailer suitable for development.
func NewFromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{}
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)

	var a smtp.Auth
	if m.username != "" {
		a = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := m.host + ":" + m.port
	return smtp.SendMail(addr, a, m.from, []string{to}, []byte(msg))
}

// LogMailer writes would-be emails to the log instead of delivering them.
type LogMailer struct{}

func (m *LogMailer) Send(to, subject, body string) error {
	logger.Info("outbound email (not delivered)", "to", to, "subject", subject, "body", body)
	return nil
}
