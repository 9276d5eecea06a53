package notify

import (
	"context"

	"feedback-backend/internal/models"
)

// Notifier publishes an alert about a critical submission.
// Implementations can be swapped without touching the ingest pipeline.
type Notifier interface {
	Publish(ctx context.Context, s models.Submission) error
}
