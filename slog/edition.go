package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dagkrant"
)

// Ensure the edition decorators implement their interfaces.
var (
	_ dagkrant.Renderer = (*LoggingRenderer)(nil)
	_ dagkrant.Mailer   = (*LoggingMailer)(nil)
)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   dagkrant.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next dagkrant.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// RenderPDF logs the document and PDF sizes.
func (r *LoggingRenderer) RenderPDF(ctx context.Context, html string) (pdf []byte, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render pdf",
			"bytes", len(html),
			"pdfBytes", len(pdf),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.RenderPDF(ctx, html)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}

// LoggingMailer wraps a Mailer with logging.
type LoggingMailer struct {
	next   dagkrant.Mailer
	logger *slog.Logger
}

// NewLoggingMailer creates a new LoggingMailer.
func NewLoggingMailer(next dagkrant.Mailer, logger *slog.Logger) *LoggingMailer {
	return &LoggingMailer{next: next, logger: logger}
}

// SendEdition delegates to the wrapped mailer and logs the delivery.
func (m *LoggingMailer) SendEdition(ctx context.Context, msg *dagkrant.EditionMessage) (err error) {
	defer func(begin time.Time) {
		m.logger.Info("send edition",
			"to", msg.To,
			"subject", msg.Subject,
			"attachment", msg.Filename,
			"pdfBytes", len(msg.PDF),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.SendEdition(ctx, msg)
}
