package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
)

// Service covers registration, login and account management.
type Service interface {
	// Register creates a pending account and emails a 5-digit OTP. The
	// account cannot log in or borrow until the OTP is confirmed.
	Register(ctx context.Context, req *model.RegisterRequest) error

	// VerifyOTP confirms the emailed code, marks the account verified and
	// returns a signed session token.
	VerifyOTP(ctx context.Context, req *model.VerifyOTPRequest) (*model.LoginResponse, error)

	// Login authenticates a verified account.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error)

	// ForgotPassword emails a reset link. Silently succeeds when the email
	// is unknown so the endpoint cannot be used to enumerate accounts.
	ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) error

	// ResetPassword sets a new password from an emailed token.
	ResetPassword(ctx context.Context, token string, req *model.ResetPasswordRequest) error

	// ChangePassword sets a new password for a logged-in user.
	ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error

	// ListUsers returns every verified account with its borrow list, for
	// the admin screen.
	ListUsers(ctx context.Context) ([]model.AdminUserView, error)

	// AddNewAdmin creates a pre-verified admin account with an avatar.
	AddNewAdmin(ctx context.Context, req *model.AddAdminRequest) (*model.UserDTO, error)
}
