package mock

import "docscout"

var _ docscout.Converter = (*Converter)(nil)

// Converter is a mock implementation of docscout.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
