package pipeline_test

import (
	"context"
	"testing"
	"time"

	"docscout"
	"docscout/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond}

	t.Run("returns on first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "content", nil
		}

		content, attempts, err := pipeline.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)

		require.NoError(t, err)
		assert.Equal(t, "content", content)
		assert.Equal(t, 1, attempts)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls < 3 {
				return "", docscout.Errorf(docscout.EUNAVAILABLE, "server overloaded")
			}
			return "content", nil
		}

		content, attempts, err := pipeline.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)

		require.NoError(t, err)
		assert.Equal(t, "content", content)
		assert.Equal(t, 3, attempts)
	})

	t.Run("permanent failures are not retried", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", docscout.Errorf(docscout.EINVALID, "HTTP 404")
		}

		_, attempts, err := pipeline.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)

		require.Error(t, err)
		assert.Equal(t, docscout.EINVALID, docscout.ErrorCode(err))
		assert.Equal(t, 1, attempts)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after exhausting delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", docscout.Errorf(docscout.ETIMEOUT, "request timed out")
		}

		_, attempts, err := pipeline.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)

		require.Error(t, err)
		assert.Equal(t, docscout.ETIMEOUT, docscout.ErrorCode(err))
		assert.Equal(t, 3, attempts)
		assert.Equal(t, 3, calls)
	})

	t.Run("respects context cancellation between attempts", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(ctx context.Context, url string) (string, error) {
			cancel()
			return "", docscout.Errorf(docscout.EUNAVAILABLE, "server overloaded")
		}

		_, _, err := pipeline.FetchWithRetryDelays(ctx, "https://example.com", fetch, []time.Duration{time.Minute})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
