package repository

import (
	"context"

	"feedback-backend/internal/models"
)

// SubmissionStore is the durable, append-only record of submissions.
// ListAll returns submissions newest first.
type SubmissionStore interface {
	Append(ctx context.Context, s models.Submission) error
	ListAll(ctx context.Context) ([]models.Submission, error)
}

// CollectionName is the remote table/collection holding feedback records.
const CollectionName = "feedback"
