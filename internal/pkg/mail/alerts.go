package mail

import (
	"fmt"
	"html"

	"github.com/feedbackqr/feedbackqr/internal/pkg/env"
)

// SendUrgentFeedbackAlert notifies a tenant about a low-rating submission.
// Alerts are opt-in via ALERT_EMAILS_ENABLED; failures are the caller's
// problem to log, never to surface to the submitting customer.
func SendUrgentFeedbackAlert(to, qrName string, rating int, comment string) error {
	if env.GetEnv("ALERT_EMAILS_ENABLED", "false") != "true" {
		return nil
	}

	subject := fmt.Sprintf("Urgent feedback for %s (%d/5)", qrName, rating)

	body := fmt.Sprintf(
		"<h2>Urgent feedback received</h2>"+
			"<p><strong>Touch point:</strong> %s</p>"+
			"<p><strong>Rating:</strong> %d/5</p>",
		html.EscapeString(qrName), rating,
	)
	if comment != "" {
		body += fmt.Sprintf("<p><strong>Comment:</strong> %s</p>", html.EscapeString(comment))
	}
	body += "<p>Log in to your dashboard to respond.</p>"

	return SendMail(to, subject, body)
}
