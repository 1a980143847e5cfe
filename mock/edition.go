package mock

import (
	"context"

	"github.com/fwojciec/dagkrant"
)

var (
	_ dagkrant.Renderer = (*Renderer)(nil)
	_ dagkrant.Mailer   = (*Mailer)(nil)
)

// Renderer is a mock implementation of dagkrant.Renderer.
type Renderer struct {
	RenderPDFFn func(ctx context.Context, html string) ([]byte, error)
	CloseFn     func() error
}

func (r *Renderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	return r.RenderPDFFn(ctx, html)
}

// Close calls CloseFn when set.
func (r *Renderer) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}

// Mailer is a mock implementation of dagkrant.Mailer.
type Mailer struct {
	SendEditionFn func(ctx context.Context, msg *dagkrant.EditionMessage) error
}

func (m *Mailer) SendEdition(ctx context.Context, msg *dagkrant.EditionMessage) error {
	return m.SendEditionFn(ctx, msg)
}
