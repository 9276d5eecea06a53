package database

import (
	"context"
	"errors"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

func TestPingWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	ping := func(ctx context.Context) error {
		calls++
		_, hasDeadline := ctx.Deadline()
		require.True(t, hasDeadline)
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	err := pingWithRetry(context.Background(), "test", backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 5), ping)
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestPingWithRetry_GivesUp(t *testing.T) {
	calls := 0
	boom := errors.New("connection refused")
	ping := func(context.Context) error {
		calls++
		return boom
	}

	err := pingWithRetry(context.Background(), "test", backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2), ping)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, calls)
}

func TestPingWithRetry_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	ping := func(context.Context) error {
		calls++
		cancel()
		return errors.New("connection refused")
	}

	err := pingWithRetry(ctx, "test", backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 5), ping)
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestDefaultBackOff_Attempts(t *testing.T) {
	b := defaultBackOff()
	b.Reset()
	waits := 0
	for b.NextBackOff() != backoff.Stop {
		waits++
	}
	require.Equal(t, pingAttempts-1, waits)
}
