// Package goquery harvests structured admonition blocks (warning, caution,
// note callouts) from raw documentation HTML. Documentation frameworks mark
// pitfalls with dedicated markup that survives even when the prose carries
// no lexical warning indicator, so this complements the markdown miners.
package goquery

import (
	"regexp"
	"strings"

	"docscout"

	"github.com/PuerkitoBio/goquery"
)

// admonitionSelector pairs a CSS selector with whether matched text must
// also carry a lexical indicator. Dedicated admonition markup is trusted as
// is; generic markup like blockquotes needs corroboration.
type admonitionSelector struct {
	selector       string
	needsIndicator bool
}

// admonitionSelectors cover the markup used by common documentation
// frameworks (Docusaurus, MkDocs, Sphinx, GitBook).
var admonitionSelectors = []admonitionSelector{
	{selector: ".admonition.warning, .admonition.caution, .admonition.important"},
	{selector: ".theme-admonition-warning, .theme-admonition-caution, .theme-admonition-danger"},
	{selector: "div.warning, div.caution, aside.warning"},
	{selector: "blockquote", needsIndicator: true},
	{selector: ".callout", needsIndicator: true},
}

// indicatorRe corroborates generic markup as an actual warning.
var indicatorRe = regexp.MustCompile(`(?i)\b(warning|caution|important|note|avoid|make sure|do not|don't)\b`)

// whitespaceRe collapses runs of whitespace left by HTML text extraction.
var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractAdmonitions parses raw HTML and returns the warning callouts found
// as gotchas attributed to sourceURL. Unparseable input yields an EINVALID
// error, which the pipeline logs and skips.
func ExtractAdmonitions(rawHTML, sourceURL string, category docscout.Category) ([]docscout.Gotcha, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var gotchas []docscout.Gotcha

	for _, cfg := range admonitionSelectors {
		doc.Find(cfg.selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(whitespaceRe.ReplaceAllString(sel.Text(), " "))
			if text == "" {
				return
			}
			if cfg.needsIndicator && !indicatorRe.MatchString(text) {
				return
			}
			if seen[text] {
				return
			}
			seen[text] = true

			warning, context := splitWarning(text)
			gotchas = append(gotchas, docscout.Gotcha{
				SourceURL: sourceURL,
				Warning:   warning,
				Context:   context,
				Category:  category,
			})
		})
	}

	return gotchas, nil
}

// splitWarning separates the leading sentence from the remaining context.
func splitWarning(text string) (warning, context string) {
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			return strings.TrimSpace(text[:i+1]), strings.TrimSpace(text[i+1:])
		}
	}
	return text, ""
}
