package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"docscout"

	"github.com/cespare/xxhash/v2"
)

// DefaultTTL is the default lifetime of a cache entry.
const DefaultTTL = 24 * time.Hour

// Compile-time interface verification.
var _ docscout.ContentCache = (*ContentCache)(nil)

// ContentCache implements docscout.ContentCache using SQLite. Entries are
// immutable once written; a replacing write of identical content is
// harmless, so concurrent workers need no coordination beyond SQLite's own
// locking.
type ContentCache struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// CacheOption configures a ContentCache.
type CacheOption func(*ContentCache)

// WithTTL sets the entry lifetime. Defaults to DefaultTTL (24h).
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *ContentCache) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *ContentCache) {
		c.now = now
	}
}

// NewContentCache creates a new ContentCache backed by db.
func NewContentCache(db *DB, opts ...CacheOption) *ContentCache {
	c := &ContentCache{
		db:  db,
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// hashContent computes the xxHash of content as a hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// Get returns the entry for url.
// Returns ENOTFOUND if the entry is absent or older than the TTL.
func (c *ContentCache) Get(ctx context.Context, url string) (*docscout.CachedContent, error) {
	var entry docscout.CachedContent
	var fetchedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT url, content, content_hash, fetched_at
		FROM content_cache
		WHERE url = ?
	`, url).Scan(&entry.URL, &entry.Content, &entry.ContentHash, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docscout.Errorf(docscout.ENOTFOUND, "cache entry %q not found", url)
	} else if err != nil {
		return nil, err
	}

	entry.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, err
	}

	if c.now().Sub(entry.FetchedAt) > c.ttl {
		return nil, docscout.Errorf(docscout.ENOTFOUND, "cache entry %q expired", url)
	}

	return &entry, nil
}

// Put stores an entry, replacing any prior entry for the URL.
// The content hash and fetch time are filled in if unset.
func (c *ContentCache) Put(ctx context.Context, entry *docscout.CachedContent) error {
	if entry.URL == "" {
		return docscout.Errorf(docscout.EINVALID, "cache entry URL required")
	}

	hash := entry.ContentHash
	if hash == "" {
		hash = hashContent(entry.Content)
	}
	fetchedAt := entry.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = c.now().UTC()
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO content_cache (url, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?)
	`, entry.URL, entry.Content, hash, fetchedAt.Format(time.RFC3339))

	return err
}
