package mock

import (
	"context"

	"docscout"
)

var _ docscout.BundleWriter = (*BundleWriter)(nil)

// BundleWriter is a mock implementation of docscout.BundleWriter.
type BundleWriter struct {
	WriteBundleFn func(ctx context.Context, dir string, bundle *docscout.ResearchBundle) error
}

func (w *BundleWriter) WriteBundle(ctx context.Context, dir string, bundle *docscout.ResearchBundle) error {
	return w.WriteBundleFn(ctx, dir, bundle)
}
