// Package htmltomarkdown converts sanitized newsletters to Markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/dom"
)

// Ensure Converter implements dagkrant.Converter at compile time.
var _ dagkrant.Converter = (*Converter)(nil)

var hiddenRE = regexp.MustCompile(`(?i)display\s*:\s*none`)

// Converter wraps html-to-markdown to convert newsletter HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			strikethrough.NewStrikethroughPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Elements hidden with an
// inline display:none, such as a heading that repeats the subject, are left
// out.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", dagkrant.Errorf(dagkrant.EINVALID, "empty HTML input")
	}

	d, err := dom.Parse(html)
	if err != nil {
		return "", dagkrant.Errorf(dagkrant.EINVALID, "parse HTML: %v", err)
	}
	for _, id := range d.Find() {
		if hiddenRE.MatchString(d.Attr(id, "style")) {
			d.Remove(id)
		}
	}

	result, err := c.conv.ConvertString(d.Render())
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}
