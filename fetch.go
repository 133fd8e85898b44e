package docscout

import (
	"context"
	"time"
)

// FetchStatus describes the outcome of fetching one target.
type FetchStatus string

// Fetch outcomes.
const (
	FetchOK      FetchStatus = "ok"
	FetchError   FetchStatus = "error"
	FetchTimeout FetchStatus = "timeout"
)

// FetchResult records the outcome of fetching one target within a run.
// There is exactly one result per target per run; a re-fetch replaces the
// prior result for that run.
type FetchResult struct {
	Target      FetchTarget `json:"target"`
	Status      FetchStatus `json:"status"`
	Content     string      `json:"-"`
	FetchedAt   time.Time   `json:"fetchedAt"`
	Attempts    int         `json:"attempts"`
	ErrorDetail string      `json:"errorDetail,omitempty"`
}

// Fetcher retrieves raw content from a URL over the network.
type Fetcher interface {
	// Fetch performs the request and returns the response body.
	// Transient failures (timeout, 5xx, 429, connection reset) are
	// reported with code EUNAVAILABLE so callers can retry; other HTTP
	// errors are permanent.
	Fetch(ctx context.Context, url string) (string, error)

	// Close releases client resources.
	Close() error
}

// CachedContent is one content cache entry. Entries are immutable once
// written; a duplicate write of identical content is harmless.
type CachedContent struct {
	URL         string
	Content     string
	ContentHash string
	FetchedAt   time.Time
}

// ContentCache stores fetched content keyed by URL with a TTL.
// The cache is the only state shared between runs and between workers.
type ContentCache interface {
	// Get returns the entry for url.
	// Returns ENOTFOUND if the entry is absent or expired.
	Get(ctx context.Context, url string) (*CachedContent, error)

	// Put stores an entry, replacing any prior entry for the URL.
	Put(ctx context.Context, entry *CachedContent) error
}

// HostLimiter bounds request pressure against a single host. It combines
// a per-host concurrency cap with per-host request pacing.
type HostLimiter interface {
	// Acquire blocks until a slot for the host is available and the host's
	// rate limit admits a request. The returned release function must be
	// called when the request finishes.
	Acquire(ctx context.Context, host string) (release func(), err error)
}
