package model

import "errors"

// Repository-level errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// Service-level errors
var (
	ErrAlreadyRegistered   = errors.New("user already registered, please login")
	ErrTooManyAttempts     = errors.New("too many registration attempts, please try again later")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotVerified     = errors.New("email address not verified")
	ErrInvalidOTP          = errors.New("invalid verification code")
	ErrOTPExpired          = errors.New("verification code has expired")
	ErrInvalidResetToken   = errors.New("reset password token is invalid or has expired")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrInvalidAvatarFormat = errors.New("only jpg, jpeg, png, webp formats are allowed for avatar")
	ErrAvatarTooLarge      = errors.New("avatar exceeds maximum size (2MB)")
	ErrAvatarRequired      = errors.New("admin avatar is required")
)
