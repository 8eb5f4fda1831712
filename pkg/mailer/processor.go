package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/pkg/mailer/templates"
)

// ErrPermanent marks a job that will never succeed and must not be requeued.
var ErrPermanent = errors.New("permanent email job failure")

// Processor turns queued jobs into delivered messages.
type Processor struct {
	Sender  Sender
	AppName string
	Logger  *logrus.Logger
}

// Handle decodes, renders and sends one queued message. Errors wrapping
// ErrPermanent should be dropped; others may be retried.
func (p *Processor) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrPermanent)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		data := map[string]any{"AppName": p.AppName, "Email": job.To}
		for k, v := range job.Data {
			data[k] = v
		}
		s, t, h, err := templates.Render(job.Template, data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrPermanent)
	}

	if err := p.Sender.Send(ctx, job.To, strings.TrimSpace(subject), text, html); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	}
	return nil
}
