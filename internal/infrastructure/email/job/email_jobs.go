package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"library-backend/internal/infrastructure/email"
	"library-backend/internal/shared"
	"library-backend/pkg/logger"
)

// OTPEmailHandler delivers the registration verification code.
type OTPEmailHandler struct {
	emails email.EmailService
}

func NewOTPEmailHandler(emails email.EmailService) *OTPEmailHandler {
	return &OTPEmailHandler{emails: emails}
}

func (h *OTPEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p shared.SendOTPEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}

	if err := h.emails.SendOTPEmail(ctx, email.OTPEmailData{
		Name:  p.Name,
		Email: p.Email,
		OTP:   p.OTP,
	}); err != nil {
		return err
	}

	logger.Info("OTP email sent", map[string]interface{}{
		"email": p.Email,
	})
	return nil
}

// ResetPasswordEmailHandler delivers the password reset link.
type ResetPasswordEmailHandler struct {
	emails email.EmailService
}

func NewResetPasswordEmailHandler(emails email.EmailService) *ResetPasswordEmailHandler {
	return &ResetPasswordEmailHandler{emails: emails}
}

func (h *ResetPasswordEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p shared.SendResetPasswordEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}

	if err := h.emails.SendResetPasswordEmail(ctx, email.ResetPasswordData{
		Name:     p.Name,
		Email:    p.Email,
		ResetURL: p.ResetURL,
	}); err != nil {
		return err
	}

	logger.Info("Reset password email sent", map[string]interface{}{
		"email": p.Email,
	})
	return nil
}
