package mock

import (
	"context"

	"docscout"
)

var _ docscout.ContentCache = (*ContentCache)(nil)

// ContentCache is a mock implementation of docscout.ContentCache.
type ContentCache struct {
	GetFn func(ctx context.Context, url string) (*docscout.CachedContent, error)
	PutFn func(ctx context.Context, entry *docscout.CachedContent) error
}

func (c *ContentCache) Get(ctx context.Context, url string) (*docscout.CachedContent, error) {
	return c.GetFn(ctx, url)
}

func (c *ContentCache) Put(ctx context.Context, entry *docscout.CachedContent) error {
	return c.PutFn(ctx, entry)
}
