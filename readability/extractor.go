// Package readability rescues emptied newsletters with go-readability, the
// lighter of the two main-content extractors.
package readability

import (
	"strings"

	"github.com/fwojciec/dagkrant"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements dagkrant.Extractor at compile time.
var _ dagkrant.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. Newsletters have
// no URL, so relative links are left as they are.
func (e *Extractor) Extract(rawHTML string) (*dagkrant.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, dagkrant.Errorf(dagkrant.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, dagkrant.Errorf(dagkrant.ENOTFOUND, "no main content: %v", err)
	}

	return &dagkrant.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
