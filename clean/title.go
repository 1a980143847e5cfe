package clean

import (
	"strings"

	"github.com/fwojciec/dagkrant/dom"
)

const hiddenStyle = "display: none !important;"

// DeduplicateTitle hides the first h1, or failing that the first h2, when
// its text restates subject. The heading stays in the document so the
// surrounding structure is unchanged. If no heading is similar enough the
// input is returned as is.
func (s *Sanitizer) DeduplicateTitle(html, subject string) string {
	if html == "" || subject == "" {
		return html
	}
	d, err := dom.Parse(html)
	if err != nil {
		return html
	}
	want := subjectKey(subject)
	for _, tag := range []string{"h1", "h2"} {
		h := d.First(tag)
		if h == dom.None {
			continue
		}
		text := d.Text(h)
		if text == "" {
			continue
		}
		if Similarity(want, subjectKey(text)) <= s.cfg.TitleSimilarity {
			continue
		}
		style := d.Attr(h, "style")
		if displayNoneRE.MatchString(style) {
			return html
		}
		d.SetAttr(h, "style", mergeStyle(style, hiddenStyle))
		return d.Render()
	}
	return html
}

func mergeStyle(existing, decl string) string {
	existing = strings.TrimRight(strings.TrimSpace(existing), ";")
	if existing == "" {
		return decl
	}
	return existing + "; " + decl
}
