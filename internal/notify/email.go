package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"

	"feedback-backend/internal/models"
)

// emailSender is the part of the Resend client used here.
type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailNotifier sends critical-feedback alerts through Resend.
type EmailNotifier struct {
	emails emailSender
	from   string
	to     []string
}

func NewEmailNotifier(apiKey, from, to string) (*EmailNotifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("notify: resend api key must not be empty")
	}
	client := resend.NewClient(apiKey)
	return newEmailNotifier(client.Emails, from, to)
}

func newEmailNotifier(sender emailSender, from, to string) (*EmailNotifier, error) {
	if sender == nil {
		return nil, errors.New("notify: email sender must not be nil")
	}
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, errors.New("notify: from address must not be empty")
	}
	var recipients []string
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return nil, errors.New("notify: at least one recipient is required")
	}
	return &EmailNotifier{emails: sender, from: from, to: recipients}, nil
}

func (n *EmailNotifier) Publish(ctx context.Context, s models.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sent, err := n.emails.Send(&resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("%d-star feedback received", s.Rating),
		Html:    formatAlertHTML(s),
	})
	if err != nil {
		return fmt.Errorf("notify: send email: %w", err)
	}
	log.Info().Str("email_id", sent.Id).Str("submission_id", s.ID).Msg("📧 alert email sent")
	return nil
}

func formatAlertHTML(s models.Submission) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">`)
	fmt.Fprintf(&b, `<h2 style="color: #333;">New %s feedback</h2>`, strings.Repeat("⭐", s.Rating))
	fmt.Fprintf(&b, `<p style="color: #444;">&ldquo;%s&rdquo;</p>`, html.EscapeString(s.Review))
	if ai := s.AIResponse; ai != nil {
		fmt.Fprintf(&b, `<p><strong>Summary:</strong> %s</p>`, html.EscapeString(ai.Summary))
		if len(ai.Actions) > 0 {
			b.WriteString(`<ul>`)
			for _, a := range ai.Actions {
				fmt.Fprintf(&b, `<li>%s</li>`, html.EscapeString(a))
			}
			b.WriteString(`</ul>`)
		}
	}
	fmt.Fprintf(&b, `<p style="color: #aaa; font-size: 12px;">Submission %s at %s</p>`,
		html.EscapeString(s.ID), s.Timestamp.Format("2006-01-02 15:04 MST"))
	b.WriteString(`</div>`)
	return b.String()
}
