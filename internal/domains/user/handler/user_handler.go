package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
	"library-backend/internal/domains/user/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/pkg/logger"
)

const sessionCookieName = "token"

// UserHandler exposes the auth and account endpoints.
type UserHandler struct {
	service      service.Service
	cookieMaxAge int // seconds
	secureCookie bool
}

func NewUserHandler(svc service.Service, cookieMaxAge int, secureCookie bool) *UserHandler {
	return &UserHandler{
		service:      svc,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

// Register handles POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All fields are required.")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Register(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyRegistered):
			response.BadRequest(c, "User already exists. Please login.")
		case errors.Is(err, model.ErrTooManyAttempts):
			response.BadRequest(c, "You have exceeded the maximum number of registration attempts. Please try again later.")
		default:
			logger.Error("Failed to register user", err)
			response.InternalServerError(c, "Internal server error.")
		}
		return
	}

	response.OK(c, http.StatusCreated, "Verification code sent to your email. Please verify your account.")
}

// VerifyOTP handles POST /api/v1/auth/verify
func (h *UserHandler) VerifyOTP(c *gin.Context) {
	var req model.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and OTP are required.")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.VerifyOTP(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidOTP):
			response.BadRequest(c, "Invalid OTP.")
		case errors.Is(err, model.ErrOTPExpired):
			response.BadRequest(c, "OTP has expired. Please register again.")
		default:
			logger.Error("Failed to verify OTP", err)
			response.InternalServerError(c, "Internal server error.")
		}
		return
	}

	h.setSessionCookie(c, result.Token)
	response.OKWith(c, http.StatusOK, "Account verified successfully.", gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// Login handles POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required.")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid email or password.")
			return
		}
		logger.Error("Failed to login", err)
		response.InternalServerError(c, "Internal server error.")
		return
	}

	h.setSessionCookie(c, result.Token)
	response.OKWith(c, http.StatusOK, "Logged in successfully.", gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", h.secureCookie, true)
	response.OK(c, http.StatusOK, "Logged out successfully.")
}

// Me handles GET /api/v1/auth/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized.")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			response.NotFound(c, "User not found.")
			return
		}
		logger.Error("Failed to load profile", err)
		response.InternalServerError(c, "Internal server error.")
		return
	}

	response.OKWith(c, http.StatusOK, "", gin.H{"user": profile})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email is required.")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), &req); err != nil {
		logger.Error("Failed to start password reset", err)
		response.InternalServerError(c, "Internal server error.")
		return
	}

	response.OK(c, http.StatusOK, "If the email exists, a reset link has been sent.")
}

// ResetPassword handles PUT /api/v1/auth/reset-password/:token
func (h *UserHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")

	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Password and confirmation are required.")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), token, &req); err != nil {
		switch {
		case errors.Is(err, model.ErrPasswordMismatch):
			response.BadRequest(c, "Passwords do not match.")
		case errors.Is(err, model.ErrInvalidResetToken):
			response.BadRequest(c, "Reset password token is invalid or has expired.")
		default:
			logger.Error("Failed to reset password", err)
			response.InternalServerError(c, "Internal server error.")
		}
		return
	}

	response.OK(c, http.StatusOK, "Password has been reset successfully.")
}

// ChangePassword handles PUT /api/v1/user/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized.")
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All password fields are required.")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, model.ErrPasswordMismatch):
			response.BadRequest(c, "New passwords do not match.")
		case errors.Is(err, model.ErrWrongPassword):
			response.BadRequest(c, "Current password is incorrect.")
		default:
			logger.Error("Failed to change password", err)
			response.InternalServerError(c, "Internal server error.")
		}
		return
	}

	response.OK(c, http.StatusOK, "Password changed successfully.")
}

// ListUsers handles GET /api/v1/user/all (admin only)
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list users", err)
		response.InternalServerError(c, "Internal server error.")
		return
	}

	response.OKWith(c, http.StatusOK, "", gin.H{"users": users})
}

// AddNewAdmin handles POST /api/v1/user/add-new-admin (admin only,
// multipart form with an avatar file).
func (h *UserHandler) AddNewAdmin(c *gin.Context) {
	var req model.AddAdminRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Name, email and password are required.")
		return
	}
	if err := req.Validate(); err != nil {
		if verrs, ok := err.(validation.Errors); ok {
			response.BadRequest(c, verrs.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "Admin avatar is required.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Could not read avatar file.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Could not read avatar file.")
		return
	}

	req.Avatar = data
	req.AvatarContentType = fileHeader.Header.Get("Content-Type")

	admin, err := h.service.AddNewAdmin(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAvatarRequired):
			response.BadRequest(c, "Admin avatar is required.")
		case errors.Is(err, model.ErrInvalidAvatarFormat):
			response.BadRequest(c, "Only jpg, jpeg, png and webp formats are allowed for avatar.")
		case errors.Is(err, model.ErrAvatarTooLarge):
			response.BadRequest(c, "Avatar must not exceed 2MB.")
		case errors.Is(err, model.ErrAlreadyRegistered):
			response.BadRequest(c, "User already exists with this email.")
		default:
			logger.Error("Failed to add new admin", err)
			response.InternalServerError(c, "Internal server error.")
		}
		return
	}

	response.OKWith(c, http.StatusCreated, "New admin added successfully.", gin.H{
		"user": admin,
	})
}

func (h *UserHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, h.cookieMaxAge, "/", "", h.secureCookie, true)
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
