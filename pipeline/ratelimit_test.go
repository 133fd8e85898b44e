package pipeline_test

import (
	"context"
	"testing"
	"time"

	"docscout/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("caps in-flight requests per host", func(t *testing.T) {
		t.Parallel()

		l := pipeline.NewLimiter(1000, 1)

		release, err := l.Acquire(context.Background(), "docs.example.com")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = l.Acquire(ctx, "docs.example.com")
		assert.Error(t, err, "second acquire should block until release")

		release()
		release2, err := l.Acquire(context.Background(), "docs.example.com")
		require.NoError(t, err)
		release2()
	})

	t.Run("hosts are limited independently", func(t *testing.T) {
		t.Parallel()

		l := pipeline.NewLimiter(1000, 1)

		release1, err := l.Acquire(context.Background(), "docs.example.com")
		require.NoError(t, err)
		defer release1()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		release2, err := l.Acquire(ctx, "api.example.com")
		require.NoError(t, err)
		release2()
	})

	t.Run("paces requests to one host", func(t *testing.T) {
		t.Parallel()

		l := pipeline.NewLimiter(20, 4)

		start := time.Now()
		for i := 0; i < 3; i++ {
			release, err := l.Acquire(context.Background(), "docs.example.com")
			require.NoError(t, err)
			release()
		}

		// 20 rps with burst 1 means the second and third acquire each wait
		// about 50ms.
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})
}
