package docscout

// Category is a logical grouping of documentation used for coverage scoring.
type Category string

// Documentation categories.
const (
	CategoryCoreFramework   Category = "core-framework"
	CategoryIntegration     Category = "integration"
	CategoryPatternSpecific Category = "pattern-specific"
)

// Valid returns true if c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryCoreFramework, CategoryIntegration, CategoryPatternSpecific:
		return true
	}
	return false
}

// Priority ranks fetch targets by importance. Higher values carry more
// weight in coverage scoring.
type Priority int

// Target priority tiers.
const (
	PrioritySupplementary Priority = 1
	PriorityImportant     Priority = 2
	PriorityCritical      Priority = 3
)

// Weight returns the coverage-scoring weight for the priority tier.
func (p Priority) Weight() int {
	return int(p)
}

// String returns the priority's wire name.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityImportant:
		return "important"
	case PrioritySupplementary:
		return "supplementary"
	}
	return "unknown"
}

// AppPattern identifies the application archetype a research request is for.
type AppPattern string

// Supported application patterns.
const (
	PatternSocialPlatform     AppPattern = "social_platform"
	PatternECommerce          AppPattern = "e_commerce"
	PatternContentManagement  AppPattern = "content_management"
	PatternDashboardAnalytics AppPattern = "dashboard_analytics"
	PatternSimpleCRUD         AppPattern = "simple_crud"
	PatternUnknown            AppPattern = "unknown"
)

// ParseAppPattern maps free-form input to a known pattern.
// Unrecognized input maps to PatternUnknown, which resolves to a degraded
// core-framework-only target set rather than failing.
func ParseAppPattern(s string) AppPattern {
	switch AppPattern(s) {
	case PatternSocialPlatform, PatternECommerce, PatternContentManagement,
		PatternDashboardAnalytics, PatternSimpleCRUD:
		return AppPattern(s)
	}
	return PatternUnknown
}

// FetchTarget is one URL scheduled for fetching, tagged with the category
// and priority it contributes to. Identity is the URL; a target is
// immutable once created.
type FetchTarget struct {
	URL      string   `json:"url"`
	Category Category `json:"category"`
	Priority Priority `json:"priority"`

	// Origin records the (domain, pattern) request that produced the target.
	Origin string `json:"origin"`
}

// TargetResolver maps a research request to an ordered set of fetch targets.
type TargetResolver interface {
	// Resolve returns an ordered, URL-deduplicated target list for the
	// request. The list is never empty: unknown patterns fall back to the
	// critical core-framework set.
	Resolve(domain string, pattern AppPattern) []FetchTarget

	// Supplement returns additional targets for under-covered categories.
	// Only targets whose URL is not reported by seen are returned.
	Supplement(missing []Category, seen func(url string) bool) []FetchTarget
}
