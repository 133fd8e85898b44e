package slog

import (
	"log/slog"
	"time"

	"docscout"
)

// Ensure LoggingResolver implements docscout.TargetResolver.
var _ docscout.TargetResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a TargetResolver with logging.
type LoggingResolver struct {
	next   docscout.TargetResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next docscout.TargetResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the operation.
func (r *LoggingResolver) Resolve(domain string, pattern docscout.AppPattern) (targets []docscout.FetchTarget) {
	defer func(begin time.Time) {
		r.logger.Info("resolve targets",
			"domain", domain,
			"pattern", pattern,
			"count", len(targets),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return r.next.Resolve(domain, pattern)
}

// Supplement delegates to the wrapped resolver and logs the operation.
func (r *LoggingResolver) Supplement(missing []docscout.Category, seen func(url string) bool) (targets []docscout.FetchTarget) {
	defer func(begin time.Time) {
		r.logger.Info("supplement targets",
			"missing", missing,
			"count", len(targets),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return r.next.Supplement(missing, seen)
}
