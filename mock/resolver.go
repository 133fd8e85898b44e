package mock

import "docscout"

var _ docscout.TargetResolver = (*TargetResolver)(nil)

// TargetResolver is a mock implementation of docscout.TargetResolver.
type TargetResolver struct {
	ResolveFn    func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget
	SupplementFn func(missing []docscout.Category, seen func(url string) bool) []docscout.FetchTarget
}

func (r *TargetResolver) Resolve(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
	return r.ResolveFn(domain, pattern)
}

func (r *TargetResolver) Supplement(missing []docscout.Category, seen func(url string) bool) []docscout.FetchTarget {
	return r.SupplementFn(missing, seen)
}
