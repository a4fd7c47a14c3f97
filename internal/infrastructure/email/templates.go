package email

import "fmt"

// otpEmailBody renders the verification-code mail. The code is valid for
// 15 minutes; the template says so, keep it in sync with the user service.
func otpEmailBody(name, otp string) string {
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
<body style="margin:0; padding:0; background-color:#f4f6f8; font-family:'Segoe UI', Roboto, Arial, sans-serif;">
  <table role="presentation" cellpadding="0" cellspacing="0" width="100%%" style="padding:32px 0;">
    <tr><td align="center">
      <table role="presentation" cellpadding="0" cellspacing="0" width="600" style="background:#ffffff; border-radius:12px; overflow:hidden;">
        <tr>
          <td style="background:linear-gradient(90deg,#4f46e5,#06b6d4); padding:22px;">
            <h1 style="margin:0; color:#ffffff; font-size:20px;">GoodLib</h1>
          </td>
        </tr>
        <tr>
          <td style="padding:32px; color:#0f172a;">
            <h2 style="margin:0 0 10px; font-size:20px;">Your Verification Code</h2>
            <p style="margin:0 0 20px; color:#475569; line-height:1.6;">
              Hello %s, use the code below to verify your email. This code is valid for <strong>15 minutes</strong>.
            </p>
            <div style="text-align:center; margin:14px 0 22px 0;">
              <span style="font-family:'Courier New', Courier, monospace; font-size:32px; font-weight:700; letter-spacing:6px; padding:18px 28px; border:1px solid #e6eef8; border-radius:10px; display:inline-block;">%s</span>
            </div>
            <p style="margin:0; color:#94a3b8; font-size:13px;">
              If you did not create a GoodLib account, you can safely ignore this email.
            </p>
          </td>
        </tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, name, otp)
}

func resetPasswordEmailBody(name, resetURL string) string {
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
<body style="margin:0; padding:0; background-color:#f4f6f8; font-family:'Segoe UI', Roboto, Arial, sans-serif;">
  <table role="presentation" cellpadding="0" cellspacing="0" width="100%%" style="padding:32px 0;">
    <tr><td align="center">
      <table role="presentation" cellpadding="0" cellspacing="0" width="600" style="background:#ffffff; border-radius:12px; overflow:hidden;">
        <tr>
          <td style="background:linear-gradient(90deg,#4f46e5,#06b6d4); padding:22px;">
            <h1 style="margin:0; color:#ffffff; font-size:20px;">GoodLib</h1>
          </td>
        </tr>
        <tr>
          <td style="padding:32px; color:#0f172a;">
            <h2 style="margin:0 0 10px; font-size:20px;">Reset Your Password</h2>
            <p style="margin:0 0 20px; color:#475569; line-height:1.6;">
              Hello %s, click the button below to choose a new password. The link is valid for <strong>15 minutes</strong>.
            </p>
            <div style="text-align:center; margin:14px 0 22px 0;">
              <a href="%s" style="background:#4f46e5; color:#ffffff; padding:14px 28px; border-radius:8px; text-decoration:none; display:inline-block;">Reset Password</a>
            </div>
            <p style="margin:0; color:#94a3b8; font-size:13px;">
              If you did not request a password reset, you can safely ignore this email.
            </p>
          </td>
        </tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`, name, resetURL)
}

func reminderEmailBody(name, bookTitle string) string {
	return fmt.Sprintf(`Hello %s,

This is a reminder that the book you borrowed (%q) is due for return. Kindly return it on time to avoid any late fines.

Thank you,
GoodLib Team`, name, bookTitle)
}
