package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dagkrant"
)

// Ensure the language decorators implement their interfaces.
var (
	_ dagkrant.LanguageDetector = (*LoggingLanguageDetector)(nil)
	_ dagkrant.Translator       = (*LoggingTranslator)(nil)
	_ dagkrant.TOCGenerator     = (*LoggingTOCGenerator)(nil)
)

// LoggingLanguageDetector wraps a LanguageDetector with logging.
type LoggingLanguageDetector struct {
	next   dagkrant.LanguageDetector
	logger *slog.Logger
}

// NewLoggingLanguageDetector creates a new LoggingLanguageDetector.
func NewLoggingLanguageDetector(next dagkrant.LanguageDetector, logger *slog.Logger) *LoggingLanguageDetector {
	return &LoggingLanguageDetector{next: next, logger: logger}
}

// DetectLanguage logs the detected language.
func (d *LoggingLanguageDetector) DetectLanguage(html string) dagkrant.Language {
	begin := time.Now()
	lang := d.next.DetectLanguage(html)
	d.logger.Info("language detection",
		"language", string(lang),
		"duration", time.Since(begin),
	)
	return lang
}

// LoggingTranslator wraps a Translator with logging.
type LoggingTranslator struct {
	next   dagkrant.Translator
	logger *slog.Logger
}

// NewLoggingTranslator creates a new LoggingTranslator.
func NewLoggingTranslator(next dagkrant.Translator, logger *slog.Logger) *LoggingTranslator {
	return &LoggingTranslator{next: next, logger: logger}
}

// Translate delegates to the wrapped translator and logs the operation.
func (t *LoggingTranslator) Translate(ctx context.Context, html string) (out string, err error) {
	defer func(begin time.Time) {
		t.logger.Info("translate",
			"bytes", len(html),
			"translated", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Translate(ctx, html)
}

// LoggingTOCGenerator wraps a TOCGenerator with logging.
type LoggingTOCGenerator struct {
	next   dagkrant.TOCGenerator
	logger *slog.Logger
}

// NewLoggingTOCGenerator creates a new LoggingTOCGenerator.
func NewLoggingTOCGenerator(next dagkrant.TOCGenerator, logger *slog.Logger) *LoggingTOCGenerator {
	return &LoggingTOCGenerator{next: next, logger: logger}
}

// GenerateTOCEntry delegates to the wrapped generator and logs the title.
func (g *LoggingTOCGenerator) GenerateTOCEntry(ctx context.Context, subject, sender string) (entry *dagkrant.TOCEntry, err error) {
	defer func(begin time.Time) {
		var title string
		if entry != nil {
			title = entry.ShortTitle
		}
		g.logger.Info("toc entry",
			"subject", subject,
			"title", title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.GenerateTOCEntry(ctx, subject, sender)
}
