package pipeline

import (
	"context"
	"sync"

	"docscout"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var _ docscout.HostLimiter = (*Limiter)(nil)

// Limiter bounds request pressure per host. Each host gets a token-bucket
// rate limiter with a burst of 1 and a concurrency semaphore, so bursts of
// workers hitting the same documentation site are both paced and capped
// while different hosts proceed independently.
type Limiter struct {
	mu      sync.Mutex
	hosts   map[string]*hostState
	rps     float64
	perHost int64
}

type hostState struct {
	limiter *rate.Limiter
	sem     *semaphore.Weighted
}

// NewLimiter creates a Limiter admitting rps requests per second and at most
// perHost in-flight requests per host.
func NewLimiter(rps float64, perHost int64) *Limiter {
	return &Limiter{
		hosts:   make(map[string]*hostState),
		rps:     rps,
		perHost: perHost,
	}
}

// Acquire blocks until the host has a free concurrency slot and its rate
// limit admits a request. The returned release function must be called when
// the request finishes.
func (l *Limiter) Acquire(ctx context.Context, host string) (func(), error) {
	st := l.state(host)

	if err := st.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	if err := st.limiter.Wait(ctx); err != nil {
		st.sem.Release(1)
		return nil, err
	}
	return func() { st.sem.Release(1) }, nil
}

func (l *Limiter) state(host string) *hostState {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.hosts[host]
	if !ok {
		st = &hostState{
			limiter: rate.NewLimiter(rate.Limit(l.rps), 1),
			sem:     semaphore.NewWeighted(l.perHost),
		}
		l.hosts[host] = st
	}
	return st
}
