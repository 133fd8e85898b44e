package mock

import "docscout"

var _ docscout.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of docscout.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*docscout.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*docscout.ExtractResult, error) {
	return e.ExtractFn(html)
}
