// Package resolve maps research requests to documentation fetch targets
// using lookup tables keyed on the application pattern.
package resolve

import (
	"docscout"
)

// Compile-time interface verification.
var _ docscout.TargetResolver = (*Resolver)(nil)

// Resolver is a table-driven docscout.TargetResolver. It is pure: no I/O,
// no state beyond the built-in target tables.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// targetSpec is one row of the target tables.
type targetSpec struct {
	url      string
	category docscout.Category
	priority docscout.Priority
}

// coreTargets cover the framework's data, auth, and storage sub-areas.
// They are resolved for every request, including unknown patterns.
var coreTargets = []targetSpec{
	{url: "https://docs.amplify.aws/react/build-a-backend/data/", category: docscout.CategoryCoreFramework, priority: docscout.PriorityCritical},
	{url: "https://docs.amplify.aws/react/build-a-backend/auth/", category: docscout.CategoryCoreFramework, priority: docscout.PriorityCritical},
	{url: "https://docs.amplify.aws/react/build-a-backend/storage/", category: docscout.CategoryCoreFramework, priority: docscout.PriorityCritical},
}

// integrationTargets are resolved for every recognized pattern.
var integrationTargets = []targetSpec{
	{url: "https://docs.amplify.aws/react/build-a-backend/functions/", category: docscout.CategoryIntegration, priority: docscout.PriorityImportant},
	{url: "https://docs.amplify.aws/react/build-a-backend/add-aws-services/rest-api/", category: docscout.CategoryIntegration, priority: docscout.PriorityImportant},
}

// patternTargets hold pattern-specific documentation per recognized pattern.
var patternTargets = map[docscout.AppPattern][]targetSpec{
	docscout.PatternSocialPlatform: {
		{url: "https://docs.amplify.aws/react/build-a-backend/data/subscribe-data/", category: docscout.CategoryPatternSpecific, priority: docscout.PriorityImportant},
		{url: "https://docs.amplify.aws/react/build-a-backend/auth/concepts/external-identity-providers/", category: docscout.CategoryPatternSpecific, priority: docscout.PrioritySupplementary},
		{url: "https://docs.amplify.aws/react/build-a-backend/storage/upload-files/", category: docscout.CategoryPatternSpecific, priority: docscout.PrioritySupplementary},
	},
	docscout.PatternECommerce: {
		{url: "https://docs.amplify.aws/react/build-a-backend/data/customize-authz/", category: docscout.CategoryPatternSpecific, priority: docscout.PriorityImportant},
		{url: "https://docs.amplify.aws/react/build-a-backend/functions/examples/stripe-webhook/", category: docscout.CategoryPatternSpecific, priority: docscout.PriorityImportant},
		{url: "https://docs.amplify.aws/react/build-a-backend/data/data-modeling/relationships/", category: docscout.CategoryPatternSpecific, priority: docscout.PrioritySupplementary},
	},
	docscout.PatternContentManagement: {
		{url: "https://docs.amplify.aws/react/build-a-backend/storage/manage-with-amplify-console/", category: docscout.CategoryPatternSpecific, priority: docscout.PriorityImportant},
		{url: "https://docs.amplify.aws/react/build-a-backend/data/data-modeling/", category: docscout.CategoryPatternSpecific, priority: docscout.PrioritySupplementary},
	},
	docscout.PatternDashboardAnalytics: {
		{url: "https://docs.amplify.aws/react/build-a-backend/add-aws-services/analytics/", category: docscout.CategoryPatternSpecific, priority: docscout.PriorityImportant},
		{url: "https://docs.amplify.aws/react/build-a-backend/data/connect-to-existing-data-sources/", category: docscout.CategoryPatternSpecific, priority: docscout.PrioritySupplementary},
	},
	docscout.PatternSimpleCRUD: {
		{url: "https://docs.amplify.aws/react/build-a-backend/data/mutate-data/", category: docscout.CategoryPatternSpecific, priority: docscout.PriorityImportant},
		{url: "https://docs.amplify.aws/react/build-a-backend/data/query-data/", category: docscout.CategoryPatternSpecific, priority: docscout.PriorityImportant},
	},
}

// supplementalTargets hold fallback documentation per category, consulted
// only when a pass leaves the category under-covered.
var supplementalTargets = map[docscout.Category][]targetSpec{
	docscout.CategoryCoreFramework: {
		{url: "https://docs.amplify.aws/react/build-a-backend/data/set-up-data/", category: docscout.CategoryCoreFramework, priority: docscout.PriorityCritical},
		{url: "https://docs.amplify.aws/react/build-a-backend/auth/set-up-auth/", category: docscout.CategoryCoreFramework, priority: docscout.PriorityCritical},
		{url: "https://docs.amplify.aws/react/build-a-backend/storage/set-up-storage/", category: docscout.CategoryCoreFramework, priority: docscout.PriorityCritical},
		{url: "https://docs.amplify.aws/react/build-a-backend/troubleshooting/", category: docscout.CategoryCoreFramework, priority: docscout.PriorityImportant},
	},
	docscout.CategoryIntegration: {
		{url: "https://docs.amplify.aws/react/build-a-backend/functions/set-up-function/", category: docscout.CategoryIntegration, priority: docscout.PriorityImportant},
		{url: "https://docs.amplify.aws/react/build-a-backend/add-aws-services/", category: docscout.CategoryIntegration, priority: docscout.PrioritySupplementary},
	},
	docscout.CategoryPatternSpecific: {
		{url: "https://docs.amplify.aws/react/build-a-backend/data/custom-business-logic/", category: docscout.CategoryPatternSpecific, priority: docscout.PrioritySupplementary},
		{url: "https://docs.amplify.aws/react/deploy-and-host/", category: docscout.CategoryPatternSpecific, priority: docscout.PrioritySupplementary},
	},
}

// Resolve returns the ordered, URL-deduplicated target list for a request.
// Unknown patterns resolve to the critical core-framework set only; this is
// a deliberate degraded mode, not a failure.
func (r *Resolver) Resolve(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
	origin := domain + ":" + string(pattern)

	specs := make([]targetSpec, 0, len(coreTargets)+len(integrationTargets)+4)
	specs = append(specs, coreTargets...)
	if pattern != docscout.PatternUnknown {
		specs = append(specs, integrationTargets...)
		specs = append(specs, patternTargets[pattern]...)
	}

	seen := make(map[string]bool, len(specs))
	targets := make([]docscout.FetchTarget, 0, len(specs))
	for _, s := range specs {
		if seen[s.url] {
			continue
		}
		seen[s.url] = true
		targets = append(targets, docscout.FetchTarget{
			URL:      s.url,
			Category: s.category,
			Priority: s.priority,
			Origin:   origin,
		})
	}

	return targets
}

// Supplement returns targets for the under-covered categories, excluding
// any URL already reported by seen. The result can be empty: the resolver's
// supplemental tables are finite, which bounds the pipeline's crawl growth
// independently of the pass limit.
func (r *Resolver) Supplement(missing []docscout.Category, seen func(url string) bool) []docscout.FetchTarget {
	var targets []docscout.FetchTarget
	added := make(map[string]bool)

	for _, c := range missing {
		for _, s := range supplementalTargets[c] {
			if added[s.url] || (seen != nil && seen(s.url)) {
				continue
			}
			added[s.url] = true
			targets = append(targets, docscout.FetchTarget{
				URL:      s.url,
				Category: s.category,
				Priority: s.priority,
				Origin:   "supplemental",
			})
		}
	}

	return targets
}
