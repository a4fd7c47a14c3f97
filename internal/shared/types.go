package shared

// Asynq task types. Grouped by the queue that processes them.
const (
	TypeSendOTPEmail           = "email:send_otp"
	TypeSendResetPasswordEmail = "email:send_reset_password"
	TypeNotifyOverdueBorrowers = "borrow:notify_overdue"
)

// Queue names with their worker priorities (high > default > low).
const (
	QueueCritical = "critical" // OTP + password reset mails, user is waiting
	QueueDefault  = "default"
	QueueLow      = "low" // reminder sweep, nobody is waiting
)

// SendOTPEmailPayload is queued by the registration flow and consumed by
// the worker's email handler.
type SendOTPEmailPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SendResetPasswordEmailPayload carries the reset link; only the token hash
// is persisted server-side.
type SendResetPasswordEmailPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	ResetURL string `json:"resetUrl"`
}

// NotifyOverduePayload is the (empty) payload of the scheduled sweep.
type NotifyOverduePayload struct{}
