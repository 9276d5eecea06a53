package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/require"

	"feedback-backend/internal/models"
)

type fakeSender struct {
	last *resend.SendEmailRequest
	err  error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.last = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func criticalSubmission() models.Submission {
	return models.Submission{
		ID:        "sub-1",
		Rating:    1,
		Review:    "Broken <script> checkout",
		Timestamp: time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC),
		AIResponse: &models.AIResponse{
			UserResponse: "Sorry!",
			Summary:      "Checkout broken.",
			Actions:      []string{"Fix checkout", "Refund user"},
		},
	}
}

func TestNewEmailNotifier_Validates(t *testing.T) {
	_, err := NewEmailNotifier("", "a@example.com", "b@example.com")
	require.Error(t, err)

	_, err = newEmailNotifier(nil, "a@example.com", "b@example.com")
	require.Error(t, err)

	_, err = newEmailNotifier(&fakeSender{}, "", "b@example.com")
	require.Error(t, err)

	_, err = newEmailNotifier(&fakeSender{}, "a@example.com", " , ")
	require.Error(t, err)
}

func TestEmailNotifier_Publish(t *testing.T) {
	sender := &fakeSender{}
	n, err := newEmailNotifier(sender, "alerts@example.com", "ops@example.com, pm@example.com")
	require.NoError(t, err)

	require.NoError(t, n.Publish(context.Background(), criticalSubmission()))
	require.NotNil(t, sender.last)
	require.Equal(t, "alerts@example.com", sender.last.From)
	require.Equal(t, []string{"ops@example.com", "pm@example.com"}, sender.last.To)
	require.Equal(t, "1-star feedback received", sender.last.Subject)
	require.Contains(t, sender.last.Html, "Checkout broken.")
	require.Contains(t, sender.last.Html, "<li>Refund user</li>")
	require.Contains(t, sender.last.Html, "&lt;script&gt;")
	require.NotContains(t, sender.last.Html, "<script>")
}

func TestEmailNotifier_SendError(t *testing.T) {
	n, err := newEmailNotifier(&fakeSender{err: errors.New("rate limited")}, "a@example.com", "b@example.com")
	require.NoError(t, err)

	err = n.Publish(context.Background(), criticalSubmission())
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limited")
}

func TestEmailNotifier_CanceledContext(t *testing.T) {
	sender := &fakeSender{}
	n, err := newEmailNotifier(sender, "a@example.com", "b@example.com")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, n.Publish(ctx, criticalSubmission()), context.Canceled)
	require.Nil(t, sender.last)
}

func TestLogNotifier_Publish(t *testing.T) {
	require.NoError(t, NewLogNotifier().Publish(context.Background(), criticalSubmission()))
}
