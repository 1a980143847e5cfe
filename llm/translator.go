package llm

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/clean"
	"github.com/fwojciec/dagkrant/dom"
)

// DefaultMaxChunkChars is the largest piece of HTML sent in one request.
const DefaultMaxChunkChars = 12000

const translateTemperature = 0.3

const translatePrompt = `Je bent een professionele vertaler. Vertaal de volgende HTML-content van Engels naar Nederlands. BELANGRIJK:
- Behoud ALLE HTML-tags, attributen en structuur exact.
- Vertaal ALLEEN de zichtbare tekst.
- Behoud de originele schrijfstijl en toon van de auteur.
- Vertaal NIET: URLs, e-mailadressen, merknamen, productnamen.
- Geef ALLEEN de vertaalde HTML terug, geen uitleg.`

// Ensure Translator implements dagkrant.Translator at compile time.
var _ dagkrant.Translator = (*Translator)(nil)

// Translator translates English newsletter HTML to Dutch.
type Translator struct {
	c        Completer
	maxChunk int
	logger   *slog.Logger
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithMaxChunkChars sets the chunk size. Defaults to DefaultMaxChunkChars.
func WithMaxChunkChars(n int) TranslatorOption {
	return func(t *Translator) {
		t.maxChunk = n
	}
}

// WithLogger sets the logger for failed chunks.
func WithLogger(l *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = l
	}
}

// NewTranslator creates a Translator that sends requests to c.
func NewTranslator(c Completer, opts ...TranslatorOption) *Translator {
	t := &Translator{
		c:        c,
		maxChunk: DefaultMaxChunkChars,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate translates html chunk by chunk. A chunk whose request fails is
// kept in English. An error is returned only when no chunk could be
// translated or ctx is done.
func (t *Translator) Translate(ctx context.Context, html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return html, nil
	}

	chunks := SplitHTML(html, t.maxChunk)
	var (
		sb      strings.Builder
		lastErr error
		failed  int
	)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := t.c.Complete(ctx, Request{
			System:      translatePrompt,
			User:        chunk,
			Temperature: translateTemperature,
		})
		out = strings.TrimSpace(clean.StripAIArtifacts(out))
		if err != nil || out == "" {
			if err == nil {
				err = dagkrant.Errorf(dagkrant.EINTERNAL, "empty translation")
			}
			t.logger.Warn("chunk not translated", "chunk", i+1, "chunks", len(chunks), "error", err)
			lastErr = err
			failed++
			sb.WriteString(chunk)
			continue
		}
		sb.WriteString(out)
	}

	if failed == len(chunks) {
		return "", lastErr
	}
	return sb.String(), nil
}

// SplitHTML splits html into pieces of at most maxChars bytes along the
// top-level children of the body. A single child larger than maxChars
// becomes a piece of its own. Documents that fit, and documents that
// cannot be parsed, are returned whole.
func SplitHTML(html string, maxChars int) []string {
	if maxChars <= 0 || len(html) <= maxChars {
		return []string{html}
	}
	doc, err := dom.Parse(html)
	if err != nil {
		return []string{html}
	}

	var (
		chunks  []string
		current strings.Builder
	)
	for _, c := range doc.Children(doc.Body()) {
		part := doc.Outer(c)
		if current.Len() > 0 && current.Len()+len(part) > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(part)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	if len(chunks) == 0 {
		return []string{html}
	}
	return chunks
}
