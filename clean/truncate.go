package clean

import (
	"github.com/fwojciec/dagkrant/dom"
	"golang.org/x/net/html"
)

// Truncation notice appended to shortened articles.
const (
	TruncationNotice      = "▸ Artikel ingekort. Lees het volledige artikel via de originele bron."
	truncationNoticeStyle = "color:#888; font-style:italic; margin-top:20px; border-top:1px solid #ddd; padding-top:8px; font-size:11px;"
)

// Truncate removes trailing top-level blocks of the body until the document
// holds at most maxWords visible words, then appends TruncationNotice.
// Documents within budget, and any document when maxWords is not positive,
// are returned unchanged.
func (s *Sanitizer) Truncate(raw string, maxWords int) string {
	if raw == "" || maxWords <= 0 {
		return raw
	}
	d, err := dom.Parse(raw)
	if err != nil {
		return raw
	}
	// Only body text is visible; a long <title> must not eat the budget.
	body := d.Body()
	if d.WordCount(body) <= maxWords {
		return raw
	}

	// Removing a block can change how neighbouring text is counted, so the
	// total is recounted on every iteration.
	for d.WordCount(body) > maxWords {
		children := d.Children(body)
		if len(children) == 0 {
			break
		}
		d.Remove(children[len(children)-1])
	}

	note := d.NewElement("p", html.Attribute{Key: "style", Val: truncationNoticeStyle})
	d.AppendChild(note, d.NewText(TruncationNotice))
	d.AppendChild(body, note)
	return d.Render()
}
