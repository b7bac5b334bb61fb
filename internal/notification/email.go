package notification

import (
	"fmt"
	"net/smtp"
)

// EmailConfig holds SMTP transport configuration.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// EmailService dispatches one-time codes over SMTP. A nil return from a
// send method means the transport accepted the message; the caller only
// persists challenge state on acceptance.
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service.
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// SendVerificationCode emails an account-verification code.
func (s *EmailService) SendVerificationCode(to, code string) error {
	subject := "Verification code"
	body := fmt.Sprintf(`<html><body>
		<h2>Verify your account</h2>
		<p>Your verification code is:</p>
		<h1>%s</h1>
		<p>The code expires in 5 minutes.</p>
	</body></html>`, code)
	return s.sendEmail(to, subject, body)
}

// SendForgotPasswordCode emails a password-reset code.
func (s *EmailService) SendForgotPasswordCode(to, code string) error {
	subject := "Forgot password code"
	body := fmt.Sprintf(`<html><body>
		<h2>Reset your password</h2>
		<p>Your password reset code is:</p>
		<h1>%s</h1>
		<p>The code expires in 5 minutes. If you did not request a reset, ignore this email.</p>
	</body></html>`, code)
	return s.sendEmail(to, subject, body)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(msg))
}
