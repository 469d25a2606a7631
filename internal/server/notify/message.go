// Package notify delivers account emails in the background. Callers hand a
// Message to a Notifier and move on; delivery is at-most-once and its
// outcome is only visible in the logs.
package notify

import "context"

// Template names shipped with the server.
const (
	TemplateVerifyEmail    = "verify_email_template.html"
	TemplateForgotPassword = "forgot_password_template.html"
	TemplateChangePassword = "change_password.html"
)

// Subjects used by the account lifecycle.
const (
	SubjectAccountVerification = "Account Verification"
	SubjectForgotPassword      = "Forgot Password Mail"
)

// Message is one email to render and send.
type Message struct {
	Subject  string
	To       string
	Template string
	Params   map[string]any
}

// Notifier accepts messages for asynchronous delivery. Notify must not block
// on delivery and never reports its outcome.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}
