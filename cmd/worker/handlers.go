package main

import (
	"github.com/hibiken/asynq"

	borrowJob "library-backend/internal/domains/borrow/job"
	emailjob "library-backend/internal/infrastructure/email/job"
	"library-backend/internal/shared"
	"library-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	otpEmail      *emailjob.OTPEmailHandler
	resetPassword *emailjob.ResetPasswordEmailHandler
	notifyOverdue *borrowJob.NotifyOverdueHandler
}

// initializeHandlers creates the job handlers with their dependencies.
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		otpEmail:      emailjob.NewOTPEmailHandler(c.Email),
		resetPassword: emailjob.NewResetPasswordEmailHandler(c.Email),
		notifyOverdue: borrowJob.NewNotifyOverdueHandler(c.BorrowService),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendOTPEmail, h.otpEmail.ProcessTask)
	mux.HandleFunc(shared.TypeSendResetPasswordEmail, h.resetPassword.ProcessTask)
	mux.HandleFunc(shared.TypeNotifyOverdueBorrowers, h.notifyOverdue.ProcessTask)
}
