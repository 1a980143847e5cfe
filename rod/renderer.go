// Package rod renders edition documents to PDF with headless Chrome.
package rod

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/dagkrant"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// DefaultRenderTimeout bounds a single render.
const DefaultRenderTimeout = 60 * time.Second

// A4 paper and the edition margin, in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
	margin   = 15 / 25.4
)

// Ensure Renderer implements dagkrant.Renderer at compile time.
var _ dagkrant.Renderer = (*Renderer)(nil)

// Renderer prints HTML documents to PDF. Renderer is safe for concurrent use.
type Renderer struct {
	pool       *browserPool
	timeout    time.Duration
	maxRenders int64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRenderTimeout sets the per-render timeout. Defaults to
// DefaultRenderTimeout.
func WithRenderTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithMaxRenders sets how many renders a browser serves before it is
// replaced. Zero disables recycling.
func WithMaxRenders(n int64) Option {
	return func(r *Renderer) {
		r.maxRenders = n
	}
}

// NewRenderer launches a headless Chrome browser. Close must be called when
// the Renderer is no longer needed.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		timeout:    DefaultRenderTimeout,
		maxRenders: DefaultMaxRenders,
	}
	for _, opt := range opts {
		opt(r)
	}

	pool, err := newBrowserPool(r.maxRenders)
	if err != nil {
		return nil, dagkrant.Errorf(dagkrant.EUNAVAILABLE, "%v", err)
	}
	r.pool = pool
	return r, nil
}

// RenderPDF loads html into a blank page and prints it on A4 with 15mm
// margins and background graphics.
func (r *Renderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, dagkrant.Errorf(dagkrant.EINVALID, "document is empty")
	}
	if r.pool.closed.Load() {
		return nil, dagkrant.Errorf(dagkrant.EINVALID, "renderer is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	browser := r.pool.acquire()
	if browser == nil {
		return nil, dagkrant.Errorf(dagkrant.EINVALID, "renderer is closed")
	}
	defer r.pool.release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx)
	if err := page.SetDocumentContent(html); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      gson.Num(a4Width),
		PaperHeight:     gson.Num(a4Height),
		MarginTop:       gson.Num(margin),
		MarginBottom:    gson.Num(margin),
		MarginLeft:      gson.Num(margin),
		MarginRight:     gson.Num(margin),
	})
	if err != nil {
		return nil, err
	}
	return io.ReadAll(stream)
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	return r.pool.close()
}
