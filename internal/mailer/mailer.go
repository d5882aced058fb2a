package mailer

import (
	"fmt"
	"net"
	"net/smtp"

	"github.com/Saksham-w/askme/internal/config"
)

// Mailer dispatches transactional mail. Services depend on this interface
// so tests can substitute a fake.
type Mailer interface {
	SendVerificationEmail(email, username, code string) error
}

// SMTPMailer sends mail through an SMTP relay with plain authentication.
type SMTPMailer struct {
	addr     string
	user     string
	password string
	from     string
}

// NewSMTPMailer creates a mailer from SMTP configuration.
func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		addr:     cfg.Addr,
		user:     cfg.User,
		password: cfg.Password,
		from:     from,
	}
}

// SendVerificationEmail delivers the 6-digit verification code.
func (m *SMTPMailer) SendVerificationEmail(email, username, code string) error {
	subject := "askme | Your Verification Code"
	body := fmt.Sprintf("Hello %s,\n\nYour verification code is: %s\nIt is valid for 1 hour.\n\nRegards,\nThe askme Team", username, code)
	return m.send(email, subject, body)
}

func (m *SMTPMailer) send(recipient, subject, body string) error {
	if m.addr == "" || m.user == "" || m.password == "" {
		return fmt.Errorf("SMTP configuration is not set")
	}

	host, port, err := net.SplitHostPort(m.addr)
	if err != nil {
		return fmt.Errorf("invalid SMTP server format (expected host:port): %w", err)
	}

	auth := smtp.PlainAuth("", m.user, m.password, host)

	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + recipient + "\r\n" +
		"Subject: " + subject + "\r\n\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(m.addr, auth, m.user, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send email via %s:%s: %w", host, port, err)
	}
	return nil
}
