package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"docscout"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 500ms, 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond, 1 * time.Second, 2 * time.Second}
}

// jitter spreads a backoff delay by a random fraction, up to half the
// delay, so workers that failed together don't retry in lockstep.
// Overridable in tests.
var jitter = func(d time.Duration) time.Duration {
	return d + rand.N(d/2+1)
}

// retryable reports whether an error is transient. Timeouts and availability
// failures are retried; anything else is treated as permanent.
func retryable(err error) bool {
	switch docscout.ErrorCode(err) {
	case docscout.EUNAVAILABLE, docscout.ETIMEOUT:
		return true
	}
	return false
}

// FetchWithRetryDelays attempts to fetch a URL, retrying transient failures
// with the given backoff delays plus jitter. It returns the content and the
// number of attempts made. Permanent failures return immediately.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, delays []time.Duration) (string, int, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, attempt + 1, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			return "", attempt + 1, err
		}

		select {
		case <-ctx.Done():
			return "", attempt + 1, ctx.Err()
		case <-time.After(jitter(delays[attempt])):
		}
	}

	return "", maxAttempts, lastErr
}
