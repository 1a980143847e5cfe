package mock

import (
	"context"

	"github.com/fwojciec/dagkrant"
)

var (
	_ dagkrant.LanguageDetector = (*LanguageDetector)(nil)
	_ dagkrant.Translator       = (*Translator)(nil)
	_ dagkrant.TOCGenerator     = (*TOCGenerator)(nil)
)

// LanguageDetector is a mock implementation of dagkrant.LanguageDetector.
type LanguageDetector struct {
	DetectLanguageFn func(html string) dagkrant.Language
}

func (d *LanguageDetector) DetectLanguage(html string) dagkrant.Language {
	return d.DetectLanguageFn(html)
}

// Translator is a mock implementation of dagkrant.Translator.
type Translator struct {
	TranslateFn func(ctx context.Context, html string) (string, error)
}

func (t *Translator) Translate(ctx context.Context, html string) (string, error) {
	return t.TranslateFn(ctx, html)
}

// TOCGenerator is a mock implementation of dagkrant.TOCGenerator.
type TOCGenerator struct {
	GenerateTOCEntryFn func(ctx context.Context, subject, sender string) (*dagkrant.TOCEntry, error)
}

func (g *TOCGenerator) GenerateTOCEntry(ctx context.Context, subject, sender string) (*dagkrant.TOCEntry, error) {
	return g.GenerateTOCEntryFn(ctx, subject, sender)
}
