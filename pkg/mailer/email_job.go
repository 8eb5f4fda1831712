package mailer

import (
	"time"

	"github.com/jyotir-aditya/fullstackAssignment/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject/Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewWelcomeJob builds the job queued after a successful signup.
func NewWelcomeJob(email string) EmailJob {
	return EmailJob{
		To:       email,
		Template: templates.Welcome,
		Data: map[string]any{
			"Email":      email,
			"SignedUpAt": time.Now().UTC().Format(time.RFC3339),
		},
	}
}
