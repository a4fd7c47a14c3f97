package email

import (
	"context"
	"fmt"
	"net/smtp"

	"library-backend/pkg/logger"
)

// OTPEmailData feeds the verification-code mail.
type OTPEmailData struct {
	Name  string
	Email string
	OTP   string
}

// ResetPasswordData feeds the password-reset mail.
type ResetPasswordData struct {
	Name     string
	Email    string
	ResetURL string
}

// ReminderData feeds the overdue-return reminder mail.
type ReminderData struct {
	Name      string
	Email     string
	BookTitle string
}

type EmailService interface {
	SendOTPEmail(ctx context.Context, data OTPEmailData) error
	SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error
	SendReminderEmail(ctx context.Context, data ReminderData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

// NewSMTPEmailService sends through a plain SMTP relay (mailhog locally,
// an SES endpoint in production).
func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendOTPEmail(ctx context.Context, data OTPEmailData) error {
	subject := "Verification Code (GoodLib)"
	body := otpEmailBody(data.Name, data.OTP)
	return s.send(data.Email, subject, body, true)
}

func (s *smtpEmailService) SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error {
	subject := "GoodLib Password Reset"
	body := resetPasswordEmailBody(data.Name, data.ResetURL)
	return s.send(data.Email, subject, body, true)
}

func (s *smtpEmailService) SendReminderEmail(ctx context.Context, data ReminderData) error {
	subject := "Book Return Reminder"
	body := reminderEmailBody(data.Name, data.BookTitle)
	return s.send(data.Email, subject, body, false)
}

func (s *smtpEmailService) send(to, subject, body string, html bool) error {
	contentType := "text/plain; charset=\"UTF-8\""
	if html {
		contentType = "text/html; charset=\"UTF-8\""
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, contentType, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
