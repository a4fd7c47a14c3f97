package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var otpFormat = regexp.MustCompile(`^[0-9]{5}$`)

// RegisterRequest starts the OTP registration flow.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 16).Error("password must be between 8 and 16 characters"),
		),
	)
}

// VerifyOTPRequest confirms the emailed code.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (r VerifyOTPRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.OTP,
			validation.Required.Error("otp is required"),
			validation.Match(otpFormat).Error("otp must be a 5-digit code"),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 16).Error("password must be between 8 and 16 characters"),
		),
		validation.Field(&r.ConfirmPassword, validation.Required),
	)
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword,
			validation.Required,
			validation.Length(8, 16).Error("password must be between 8 and 16 characters"),
		),
		validation.Field(&r.ConfirmNewPassword, validation.Required),
	)
}

// AddAdminRequest creates a pre-verified admin account with an avatar.
// The avatar bytes come from the multipart form, not JSON.
type AddAdminRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`

	Avatar            []byte `form:"-"`
	AvatarContentType string `form:"-"`
}

func (r AddAdminRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(2, 100)),
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.Email),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 16).Error("password must be between 8 and 16 characters"),
		),
	)
}

// LoginResponse carries the session token plus the public profile.
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
