package mock

import "github.com/fwojciec/woocrawl"

var _ woocrawl.Converter = (*Converter)(nil)

// Converter is a mock implementation of woocrawl.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
