package pipeline_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/ssmcp"
	"github.com/fwojciec/ssmcp/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter_Wait(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("spaces renders of the same host", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewHostLimiter(10, nil)
		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://example.com/a")))

		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://example.com/b")))

		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("www and port variants share a bucket", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewHostLimiter(10, nil)
		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://www.Example.com/a")))

		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("http://example.com:8080/b")))

		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("hosts do not share a budget", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewHostLimiter(10, nil)
		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://example.com")))

		start := time.Now()
		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://other.com")))

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("raw HTML targets are never delayed", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewHostLimiter(0.5, nil)
		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://example.com")))

		start := time.Now()
		for range 3 {
			require.NoError(t, limiter.Wait(ctx, ssmcp.HTMLTarget("<p>x</p>", "https://example.com")))
		}

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("non-positive rate disables limiting", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewHostLimiter(0, nil)

		start := time.Now()
		for range 5 {
			require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://example.com")))
		}

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewHostLimiter(0.5, nil)
		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://example.com")))

		short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, limiter.Wait(short, ssmcp.URLTarget("https://example.com")), context.DeadlineExceeded)
	})

	t.Run("logs delayed renders", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		limiter := pipeline.NewHostLimiter(20, logger)

		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://www.example.com")))
		assert.Empty(t, buf.String())

		require.NoError(t, limiter.Wait(ctx, ssmcp.URLTarget("https://www.example.com")))
		assert.Contains(t, buf.String(), "render delayed")
		assert.Contains(t, buf.String(), "host=example.com")
	})
}
