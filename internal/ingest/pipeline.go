// Package ingest validates feedback submissions, enriches them with an
// analysis, and persists them.
package ingest

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"feedback-backend/internal/metrics"
	"feedback-backend/internal/models"
	"feedback-backend/internal/notify"
)

const (
	MsgRequired    = "Rating and review are required"
	MsgRatingRange = "Rating must be a whole number between 1 and 5"

	notifyTimeout = 10 * time.Second

	// Coarsest precision among the backends (Mongo dates), so a stored
	// submission reads back identical to the one returned at ingest.
	timestampPrecision = time.Millisecond
)

type Analyzer interface {
	Analyze(ctx context.Context, review string, rating int) models.AIResponse
}

type Store interface {
	Append(ctx context.Context, s models.Submission) error
}

// SubmitInput is the submission as decoded from the request. A missing
// rating decodes to 0.
type SubmitInput struct {
	Rating float64
	Review string
}

type Pipeline struct {
	analyzer Analyzer
	store    Store
	notifier notify.Notifier

	clock func() time.Time
	newID func() string
	async func(func())
}

type Option func(*Pipeline)

// WithNotifier alerts n about critical submissions after they are stored.
func WithNotifier(n notify.Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) { p.clock = clock }
}

func WithIDGenerator(newID func() string) Option {
	return func(p *Pipeline) { p.newID = newID }
}

// withAsync replaces the goroutine launcher; tests run notifications inline.
func withAsync(run func(func())) Option {
	return func(p *Pipeline) { p.async = run }
}

func NewPipeline(a Analyzer, s Store, opts ...Option) (*Pipeline, error) {
	if a == nil {
		return nil, errors.New("ingest: analyzer must not be nil")
	}
	if s == nil {
		return nil, errors.New("ingest: store must not be nil")
	}
	p := &Pipeline{
		analyzer: a,
		store:    s,
		clock:    time.Now,
		newID:    uuid.NewString,
		async:    func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Submit validates in, waits for the analysis, stores the assembled
// submission, and returns it. Only input validation and storage failures
// are reported as errors.
func (p *Pipeline) Submit(ctx context.Context, in SubmitInput) (models.Submission, error) {
	rating, err := validate(in)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return models.Submission{}, err
	}

	ai := p.analyzer.Analyze(ctx, in.Review, rating).Normalize()

	sub := models.Submission{
		ID:         p.newID(),
		Rating:     rating,
		Review:     in.Review,
		Timestamp:  p.clock().UTC().Truncate(timestampPrecision),
		AIResponse: &ai,
	}

	if err := p.store.Append(ctx, sub); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		return models.Submission{}, newError(ErrorInternal, "store_append_error", "", err)
	}
	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()

	log.Info().
		Str("submission_id", sub.ID).
		Int("rating", sub.Rating).
		Int("review_len", len(sub.Review)).
		Msg("submission stored")

	if p.notifier != nil && sub.IsCritical() {
		p.async(func() { p.publish(sub) })
	}
	return sub, nil
}

func (p *Pipeline) publish(sub models.Submission) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := p.notifier.Publish(ctx, sub); err != nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("submission_id", sub.ID).Msg("publish critical feedback alert")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}

// validate applies the truthiness rule for both fields, then requires the
// rating to be a whole star count.
func validate(in SubmitInput) (int, error) {
	if in.Rating == 0 || in.Review == "" {
		return 0, newError(ErrorInvalidInput, "missing_fields", MsgRequired, nil)
	}
	if math.IsNaN(in.Rating) || in.Rating != math.Trunc(in.Rating) || in.Rating < 1 || in.Rating > 5 {
		return 0, newError(ErrorInvalidInput, "rating_out_of_range", MsgRatingRange, nil)
	}
	return int(in.Rating), nil
}
