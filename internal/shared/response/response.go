package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope mirrors the public API contract: every payload carries a
// top-level "success" flag, and most carry a human-readable "message".
// Additional fields (book, users, borrowedBooks...) are merged in by the
// handlers via gin.H.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK writes a success envelope with an optional message.
func OK(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{Success: true, Message: message})
}

// OKWith writes a success envelope merged with extra payload fields.
func OKWith(c *gin.Context, statusCode int, message string, extra gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// Error writes a failure envelope.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{Success: false, Message: message})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 401, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 403, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 404, message)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, 500, message)
}
