// Package trafilatura rescues newsletters that sanitizing left empty by
// extracting their main content instead.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/dagkrant"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements dagkrant.Extractor at compile time.
var _ dagkrant.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Images and links are kept since a
// newsletter without them reads poorly on paper.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
			IncludeImages:   true,
			IncludeLinks:    true,
		},
	}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*dagkrant.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, dagkrant.Errorf(dagkrant.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, dagkrant.Errorf(dagkrant.ENOTFOUND, "no main content: %v", err)
	}

	var buf bytes.Buffer
	if result.ContentNode != nil {
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
	}

	return &dagkrant.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: buf.String(),
	}, nil
}
