package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"feedback-backend/internal/metrics"
	"feedback-backend/internal/models"
)

// FallbackStore writes to a remote store when one is configured and falls
// back to the local file store when the remote write fails. Reads come from
// the remote store alone when it is configured.
type FallbackStore struct {
	remote SubmissionStore
	local  SubmissionStore
	driver string
}

// NewFallbackStore composes remote (may be nil) with local. driver names the
// remote backend in logs.
func NewFallbackStore(remote SubmissionStore, driver string, local SubmissionStore) (*FallbackStore, error) {
	if local == nil {
		return nil, errors.New("repository: local store must not be nil")
	}
	return &FallbackStore{remote: remote, local: local, driver: driver}, nil
}

// Mode reports "remote" or "local" for startup logs.
func (f *FallbackStore) Mode() string {
	if f.remote != nil {
		return "remote"
	}
	return "local"
}

// Append returns an error only when the local write fails.
func (f *FallbackStore) Append(ctx context.Context, s models.Submission) error {
	if f.remote != nil {
		err := f.remote.Append(ctx, s)
		if err == nil {
			return nil
		}
		metrics.StoreFallbacksTotal.WithLabelValues("append").Inc()
		log.Warn().Err(err).
			Str("driver", f.driver).
			Str("submission_id", s.ID).
			Msg("remote save failed, falling back to local storage")
	}
	return f.local.Append(ctx, s)
}

// ListAll never fails: a remote error is logged and reported as an empty list.
func (f *FallbackStore) ListAll(ctx context.Context) ([]models.Submission, error) {
	if f.remote != nil {
		subs, err := f.remote.ListAll(ctx)
		if err != nil {
			metrics.StoreFallbacksTotal.WithLabelValues("list").Inc()
			log.Error().Err(err).Str("driver", f.driver).Msg("remote fetch failed, returning empty list")
			return []models.Submission{}, nil
		}
		return nonNil(subs), nil
	}

	subs, err := f.local.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("local fetch failed, returning empty list")
		return []models.Submission{}, nil
	}
	return nonNil(subs), nil
}

func nonNil(subs []models.Submission) []models.Submission {
	if subs == nil {
		return []models.Submission{}
	}
	return subs
}
