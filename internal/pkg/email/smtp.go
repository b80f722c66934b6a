// internal/pkg/email/smtp.go
package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// sendSMTPEmail sends mail through a plain SMTP relay
func (s *EmailService) sendSMTPEmail(email *Email) error {
	cfg := s.config.External.Email
	if cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP host not configured")
	}

	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	from := cfg.FromEmail
	headers := []string{
		"From: " + from,
		"To: " + strings.Join(email.To, ", "),
		"Subject: " + email.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + email.HTMLContent

	if err := smtp.SendMail(addr, auth, from, email.To, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail via SMTP: %w", err)
	}
	return nil
}
