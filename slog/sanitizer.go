package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/dagkrant"
)

// Ensure LoggingSanitizer implements dagkrant.Sanitizer.
var _ dagkrant.Sanitizer = (*LoggingSanitizer)(nil)

// LoggingSanitizer wraps a Sanitizer with logging. Only the operations that
// change a document or a batch are logged; predicates are delegated as is.
type LoggingSanitizer struct {
	next   dagkrant.Sanitizer
	logger *slog.Logger
}

// NewLoggingSanitizer creates a new LoggingSanitizer.
func NewLoggingSanitizer(next dagkrant.Sanitizer, logger *slog.Logger) *LoggingSanitizer {
	return &LoggingSanitizer{next: next, logger: logger}
}

// Sanitize logs how much of the document was removed.
func (s *LoggingSanitizer) Sanitize(html string) (out string) {
	defer func(begin time.Time) {
		s.logger.Info("sanitize",
			"bytes", len(html),
			"kept", len(out),
			"reduction", reduction(len(html), len(out)),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Sanitize(html)
}

// DeduplicateTitle delegates to the wrapped sanitizer.
func (s *LoggingSanitizer) DeduplicateTitle(html, subject string) string {
	return s.next.DeduplicateTitle(html, subject)
}

// Truncate logs when a document was shortened.
func (s *LoggingSanitizer) Truncate(html string, maxWords int) string {
	out := s.next.Truncate(html, maxWords)
	if out != html {
		s.logger.Info("truncate",
			"maxWords", maxWords,
			"bytes", len(html),
			"kept", len(out),
		)
	}
	return out
}

// IsWebsiteTemplate delegates to the wrapped sanitizer.
func (s *LoggingSanitizer) IsWebsiteTemplate(html string) bool {
	return s.next.IsWebsiteTemplate(html)
}

// HasContent delegates to the wrapped sanitizer.
func (s *LoggingSanitizer) HasContent(html string) bool {
	return s.next.HasContent(html)
}

// DeduplicateNewsletters logs how many near-duplicates were dropped.
func (s *LoggingSanitizer) DeduplicateNewsletters(items []*dagkrant.Newsletter) (out []*dagkrant.Newsletter) {
	defer func(begin time.Time) {
		s.logger.Info("deduplicate newsletters",
			"count", len(items),
			"kept", len(out),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.DeduplicateNewsletters(items)
}

// reduction returns the removed share of before as a whole percentage.
func reduction(before, after int) int {
	if before <= 0 {
		return 0
	}
	return (before - after) * 100 / before
}
