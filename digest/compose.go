package digest

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/fwojciec/dagkrant"
)

//go:embed templates/edition.html
var templateFS embed.FS

var editionTemplate = template.Must(template.ParseFS(templateFS, "templates/edition.html"))

type coverData struct {
	Number   int
	Date     string
	Sections []sectionData
}

type sectionData struct {
	Anchor  string
	Subject string
	Sender  string
	Entry   *dagkrant.TOCEntry
	Content template.HTML
}

// Compose renders an edition as one HTML document: a cover page with the
// table of contents followed by one section per newsletter, each starting
// on a new page. Newsletter HTML is inserted verbatim; subjects, senders
// and TOC text are escaped.
func Compose(e *dagkrant.Edition) (string, error) {
	if len(e.TOC) != len(e.Newsletters) {
		return "", dagkrant.Errorf(dagkrant.EINVALID, "edition has %d newsletters but %d TOC entries", len(e.Newsletters), len(e.TOC))
	}

	data := coverData{
		Number:   e.Number,
		Date:     DutchDate(e.Date),
		Sections: make([]sectionData, len(e.Newsletters)),
	}
	for i, n := range e.Newsletters {
		data.Sections[i] = sectionData{
			Anchor:  fmt.Sprintf("newsletter-%d", i+1),
			Subject: n.Subject,
			Sender:  n.Sender,
			Entry:   e.TOC[i],
			Content: template.HTML(n.HTML),
		}
	}

	var buf bytes.Buffer
	if err := editionTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render edition: %w", err)
	}
	return buf.String(), nil
}
