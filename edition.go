package dagkrant

import (
	"context"
	"time"
)

// Edition represents one issue of the newspaper.
type Edition struct {
	Number      int           `json:"number"`
	Date        time.Time     `json:"date"`
	Newsletters []*Newsletter `json:"newsletters"`
	TOC         []*TOCEntry   `json:"toc"`
}

// Renderer converts a composed edition document into a PDF.
type Renderer interface {
	// RenderPDF renders html as an A4 PDF and returns its bytes.
	RenderPDF(ctx context.Context, html string) ([]byte, error)

	// Close releases renderer resources.
	Close() error
}

// EditionMessage is the e-mail that delivers an edition.
type EditionMessage struct {
	To       string
	Subject  string
	Body     string
	Filename string
	PDF      []byte
}

// Mailer delivers editions.
type Mailer interface {
	SendEdition(ctx context.Context, msg *EditionMessage) error
}
