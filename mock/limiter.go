package mock

import (
	"context"

	"docscout"
)

var _ docscout.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of docscout.HostLimiter.
type HostLimiter struct {
	AcquireFn func(ctx context.Context, host string) (func(), error)
}

func (l *HostLimiter) Acquire(ctx context.Context, host string) (func(), error) {
	if l.AcquireFn == nil {
		return func() {}, nil
	}
	return l.AcquireFn(ctx, host)
}
