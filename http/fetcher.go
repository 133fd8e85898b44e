// Package http provides HTTP-based implementations of docscout.Fetcher and
// docscout.SitemapService for retrieving documentation content.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"docscout"
)

// DefaultFetchTimeout is the default per-request timeout.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements docscout.Fetcher at compile time.
var _ docscout.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves documentation content over plain HTTP GET.
// JavaScript-rendered sites are out of scope; documentation reference pages
// are served static.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: "docscout/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the raw content from the given URL.
//
// Failures are classified by error code: ETIMEOUT for deadline expiry,
// EUNAVAILABLE for other transport errors, 5xx responses, and 429 (which is
// rate limiting, so transient); EINVALID for the remaining 4xx responses,
// which will not succeed on retry.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", docscout.Errorf(docscout.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", docscout.Errorf(docscout.ETIMEOUT, "GET %s: %v", url, err)
		}
		return "", docscout.Errorf(docscout.EUNAVAILABLE, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to read the body
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", docscout.Errorf(docscout.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	default:
		return "", docscout.Errorf(docscout.EINVALID, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", docscout.Errorf(docscout.ETIMEOUT, "read %s: %v", url, err)
		}
		return "", docscout.Errorf(docscout.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return string(body), nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// isTimeout reports whether err stems from an expired deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
