// Package poller keeps a dashboard's copy of the submission feed fresh by
// re-reading the full set on a fixed interval.
package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"feedback-backend/internal/insights"
	"feedback-backend/internal/metrics"
	"feedback-backend/internal/models"
)

const DefaultInterval = 5 * time.Second

type Fetcher interface {
	FetchSubmissions(ctx context.Context) ([]models.Submission, error)
}

type State int

const (
	StateLoading State = iota
	StateIdle
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateIdle:
		return "idle"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// Snapshot is the result of one completed fetch.
type Snapshot struct {
	Submissions []models.Submission
	Summary     insights.Summary
	FetchedAt   time.Time
	Err         error
}

type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	location *time.Location
	clock    func() time.Time
	onUpdate func(Snapshot)

	inFlight atomic.Bool

	mu      sync.RWMutex
	state   State
	current Snapshot
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

// WithLocation sets the display zone used for the computed summary.
func WithLocation(loc *time.Location) Option {
	return func(p *Poller) { p.location = loc }
}

func WithClock(clock func() time.Time) Option {
	return func(p *Poller) { p.clock = clock }
}

// WithOnUpdate registers fn to run after every completed fetch. Calls never
// overlap.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(p *Poller) { p.onUpdate = fn }
}

func New(f Fetcher, opts ...Option) (*Poller, error) {
	if f == nil {
		return nil, errors.New("poller: fetcher must not be nil")
	}
	p := &Poller{
		fetcher:  f,
		interval: DefaultInterval,
		location: time.UTC,
		clock:    time.Now,
		state:    StateLoading,
		current:  Snapshot{Submissions: []models.Submission{}},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.interval <= 0 {
		return nil, errors.New("poller: interval must be positive")
	}
	return p, nil
}

func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Snapshot returns the result of the most recent fetch.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

func (p *Poller) LastError() error {
	return p.Snapshot().Err
}

// Run performs the initial load, then fetches every interval until ctx is
// done. Ticks that land while a fetch is still running are skipped.
func (p *Poller) Run(ctx context.Context) {
	p.fetch(ctx, StateLoading)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll is one scheduled fetch. A tick that races with cancellation is
// dropped so shutdown never publishes a canceled fetch.
func (p *Poller) poll(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	return p.fetch(ctx, StateIdle)
}

// Refresh fetches immediately. It reports false without fetching when
// another fetch is in flight.
func (p *Poller) Refresh(ctx context.Context) bool {
	return p.fetch(ctx, StateRefreshing)
}

func (p *Poller) fetch(ctx context.Context, during State) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		metrics.PollerFetchesTotal.WithLabelValues("skipped").Inc()
		return false
	}
	defer p.inFlight.Store(false)

	p.setState(during)

	subs, err := p.fetcher.FetchSubmissions(ctx)
	if err != nil {
		metrics.PollerFetchesTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("fetch submissions")
		subs = []models.Submission{}
	} else {
		metrics.PollerFetchesTotal.WithLabelValues("ok").Inc()
		if subs == nil {
			subs = []models.Submission{}
		}
	}

	now := p.clock()
	snap := Snapshot{
		Submissions: subs,
		Summary:     insights.Compute(subs, now, p.location),
		FetchedAt:   now,
		Err:         err,
	}

	p.mu.Lock()
	p.current = snap
	p.state = StateIdle
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(snap)
	}
	return true
}

func (p *Poller) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}
