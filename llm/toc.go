package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/dagkrant"
)

const (
	tocTemperature = 0.5
	tocMaxTokens   = 80
)

const tocPrompt = `Je maakt inhoudsopgave-items voor een dagelijkse krant. Geef op basis van het onderwerp en de afzender twee dingen:
1. TITEL: Een korte, pakkende titel van maximaal 8 woorden (Nederlands)
2. BESCHRIJVING: Een beschrijving van maximaal 12 woorden (Nederlands)

Formaat (exact zo, zonder aanhalingstekens):
TITEL: ...
BESCHRIJVING: ...`

// Ensure TOCGenerator implements dagkrant.TOCGenerator at compile time.
var _ dagkrant.TOCGenerator = (*TOCGenerator)(nil)

// TOCGenerator writes short Dutch titles for the table of contents.
type TOCGenerator struct {
	c Completer
}

// NewTOCGenerator creates a TOCGenerator that sends requests to c.
func NewTOCGenerator(c Completer) *TOCGenerator {
	return &TOCGenerator{c: c}
}

// GenerateTOCEntry asks the model for a title and description. When the
// reply has no title line the subject is used.
func (g *TOCGenerator) GenerateTOCEntry(ctx context.Context, subject, sender string) (*dagkrant.TOCEntry, error) {
	out, err := g.c.Complete(ctx, Request{
		System:      tocPrompt,
		User:        fmt.Sprintf("Onderwerp: %s\nAfzender: %s", subject, sender),
		Temperature: tocTemperature,
		MaxTokens:   tocMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	title, description := ParseTOCReply(out)
	if title == "" {
		title = subject
	}
	return &dagkrant.TOCEntry{
		Subject:     subject,
		Sender:      sender,
		ShortTitle:  title,
		Description: description,
	}, nil
}

// ParseTOCReply extracts the TITEL and BESCHRIJVING lines of a reply. The
// labels are matched case-insensitively; the last occurrence wins.
func ParseTOCReply(reply string) (title, description string) {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(label)) {
		case "TITEL":
			title = strings.TrimSpace(value)
		case "BESCHRIJVING":
			description = strings.TrimSpace(value)
		}
	}
	return title, description
}
