package mock

import "github.com/fwojciec/dagkrant"

var (
	_ dagkrant.Converter = (*Converter)(nil)
	_ dagkrant.Extractor = (*Extractor)(nil)
)

// Converter is a mock implementation of dagkrant.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// Extractor is a mock implementation of dagkrant.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*dagkrant.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*dagkrant.ExtractResult, error) {
	return e.ExtractFn(html)
}
