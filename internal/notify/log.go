package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"feedback-backend/internal/models"
)

// LogNotifier writes alerts to the structured log. It is used when no email
// provider is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Publish(ctx context.Context, s models.Submission) error {
	ev := log.Warn().
		Str("submission_id", s.ID).
		Int("rating", s.Rating).
		Str("review", s.Review)
	if s.AIResponse != nil {
		ev = ev.Str("summary", s.AIResponse.Summary)
	}
	ev.Msg("📨 critical feedback received")
	return nil
}
