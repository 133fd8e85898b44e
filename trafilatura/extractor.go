// Package trafilatura extracts the main content from fetched documentation
// pages, stripping navigation, footers, and other boilerplate before the
// lexical miners run.
package trafilatura

import (
	"bytes"
	"strings"

	"docscout"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docscout.ContentExtractor at compile time.
var _ docscout.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
// Malformed or empty input yields an EINVALID error; the pipeline treats
// that as an extraction skip, not a failure.
func (e *Extractor) Extract(rawHTML string) (*docscout.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docscout.Errorf(docscout.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "content extraction failed: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &docscout.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
