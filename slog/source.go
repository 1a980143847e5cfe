package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dagkrant"
)

// Ensure LoggingSource implements dagkrant.NewsletterSource.
var _ dagkrant.NewsletterSource = (*LoggingSource)(nil)

// LoggingSource wraps a NewsletterSource with logging.
type LoggingSource struct {
	next   dagkrant.NewsletterSource
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next dagkrant.NewsletterSource, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// FetchNewsletters delegates to the wrapped source and logs the operation.
func (s *LoggingSource) FetchNewsletters(ctx context.Context, since time.Time) (items []*dagkrant.Newsletter, err error) {
	defer func(begin time.Time) {
		s.logger.Info("fetch newsletters",
			"since", since.Format(time.RFC3339),
			"count", len(items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchNewsletters(ctx, since)
}
