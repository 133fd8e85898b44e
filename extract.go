package docscout

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// ContentExtractor extracts main content from HTML pages, removing boilerplate.
type ContentExtractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML (e.g. from a ContentExtractor) into
	// Markdown suitable for lexical mining.
	Convert(html string) (string, error)
}

// CodePattern is a reusable code fragment extracted from documentation,
// with provenance. Derived data: never mutated after creation.
type CodePattern struct {
	SourceURL   string   `json:"sourceUrl"`
	Code        string   `json:"code"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`

	// Example marks fragments that demonstrate usage rather than define
	// configuration or program structure.
	Example bool `json:"example,omitempty"`
}

// Gotcha is an extracted warning or pitfall fragment with provenance.
type Gotcha struct {
	SourceURL string   `json:"sourceUrl"`
	Warning   string   `json:"warning"`
	Context   string   `json:"context,omitempty"`
	Category  Category `json:"category"`
}
