package database

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const (
	pingAttempts = 3
	pingTimeout  = 10 * time.Second
)

func defaultBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.Multiplier = 2
	exp.MaxInterval = 5 * time.Second
	return backoff.WithMaxRetries(exp, pingAttempts-1)
}

// pingWithRetry calls ping until it succeeds, b gives up, or ctx is done.
// Each attempt gets its own timeout.
func pingWithRetry(ctx context.Context, name string, b backoff.BackOff, ping func(context.Context) error) error {
	op := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return ping(attemptCtx)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("store", name).Dur("retry_in", wait).Msg("⚠️  Store ping failed")
	}
	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
}
