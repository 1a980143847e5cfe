// Package digest assembles an edition of De Dagkrant: it collects the
// newsletters of the current window, cleans and translates them, writes
// the table of contents, renders the PDF and mails it.
package digest

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/fwojciec/dagkrant"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for the zero values of Digest.
const (
	DefaultMaxItems    = 20
	DefaultConcurrency = 4
	DefaultRateLimit   = 2.0
	tocTitleFallback   = 50
)

// Digest builds and delivers editions. Source, Sanitizer and Detector are
// required. A nil Translator leaves English newsletters untranslated, a
// nil TOC uses subjects as titles, a nil Extractor disables content
// rescue and a nil Archive disables archiving. Renderer and Mailer are
// needed by Run.
type Digest struct {
	Source     dagkrant.NewsletterSource
	Sanitizer  dagkrant.Sanitizer
	Detector   dagkrant.LanguageDetector
	Translator dagkrant.Translator
	TOC        dagkrant.TOCGenerator
	Extractor  dagkrant.Extractor
	Renderer   dagkrant.Renderer
	Mailer     dagkrant.Mailer
	Archive    dagkrant.NewsletterService
	Logger     *slog.Logger

	// To receives the edition.
	To string

	// MaxItems caps the newsletters per edition; the newest are kept.
	MaxItems int

	// MaxWords truncates each newsletter. Zero disables truncation.
	MaxWords int

	// Concurrency bounds the newsletters processed at once.
	Concurrency int

	// RateLimit bounds model calls per second across all workers.
	RateLimit float64

	// RetryDelays are the waits between attempts of a model call.
	RetryDelays []time.Duration

	// Retention removes archived newsletters older than this after a
	// delivery. Zero keeps everything.
	Retention time.Duration

	// DryRun skips mailing and archiving.
	DryRun bool

	// Now returns the time of the run. Defaults to time.Now.
	Now func() time.Time

	once    sync.Once
	log     *slog.Logger
	limiter *rate.Limiter
}

// Result describes a run.
type Result struct {
	// Edition is nil when no newsletter survived processing.
	Edition *dagkrant.Edition
	HTML    string
	PDF     []byte

	Fetched   int
	Duplicate int
	Archived  int
	Skipped   int
	Delivered bool
}

// Run assembles the edition for the current window and, unless DryRun is
// set, mails it and archives its newsletters. A run that finds nothing to
// publish returns a Result without an Edition.
func (d *Digest) Run(ctx context.Context) (*Result, error) {
	d.setup()
	if d.Renderer == nil {
		return nil, dagkrant.Errorf(dagkrant.EINVALID, "renderer required")
	}
	if !d.DryRun && (d.Mailer == nil || d.To == "") {
		return nil, dagkrant.Errorf(dagkrant.EINVALID, "mailer and recipient required")
	}

	now := d.now()
	res := &Result{}

	items, err := d.Collect(ctx, WindowStart(now), res)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		d.logger().Info("no newsletters in window", "since", WindowStart(now).Format(time.RFC3339))
		return res, nil
	}

	processed := d.Process(ctx, items)
	res.Skipped = len(items) - len(processed)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(processed) == 0 {
		d.logger().Warn("no newsletter survived processing", "fetched", len(items))
		return res, nil
	}

	number := EditionNumber(now)
	edition := &dagkrant.Edition{
		Number:      number,
		Date:        now.UTC(),
		Newsletters: processed,
		TOC:         d.TableOfContents(ctx, processed),
	}
	res.Edition = edition

	res.HTML, err = Compose(edition)
	if err != nil {
		return nil, err
	}
	res.PDF, err = d.Renderer.RenderPDF(ctx, res.HTML)
	if err != nil {
		return nil, err
	}
	if d.DryRun {
		return res, nil
	}

	msg := &dagkrant.EditionMessage{
		To:       d.To,
		Subject:  Subject(number, edition.Date),
		Body:     Body(number),
		Filename: Filename(number, edition.Date),
		PDF:      res.PDF,
	}
	if err := d.Mailer.SendEdition(ctx, msg); err != nil {
		return nil, err
	}
	res.Delivered = true

	d.archive(ctx, processed, now)
	return res, nil
}

// Collect fetches the newsletters received since, collapses near-duplicate
// subjects, drops newsletters that already appeared in an earlier edition
// and caps the batch at MaxItems, keeping the newest. Counters are added
// to res when it is not nil.
func (d *Digest) Collect(ctx context.Context, since time.Time, res *Result) ([]*dagkrant.Newsletter, error) {
	d.setup()
	if res == nil {
		res = &Result{}
	}

	items, err := d.Source.FetchNewsletters(ctx, since)
	if err != nil {
		return nil, err
	}
	res.Fetched = len(items)

	deduped := d.Sanitizer.DeduplicateNewsletters(items)
	res.Duplicate = len(items) - len(deduped)

	var fresh []*dagkrant.Newsletter
	for _, n := range deduped {
		if d.archived(ctx, n) {
			res.Archived++
			continue
		}
		fresh = append(fresh, n)
	}

	limit := d.MaxItems
	if limit <= 0 {
		limit = DefaultMaxItems
	}
	if len(fresh) > limit {
		d.logger().Warn("too many newsletters, keeping the newest", "count", len(fresh), "max", limit)
		sort.SliceStable(fresh, func(i, j int) bool {
			return fresh[i].ReceivedAt.After(fresh[j].ReceivedAt)
		})
		fresh = fresh[:limit]
	}
	return fresh, nil
}

func (d *Digest) archived(ctx context.Context, n *dagkrant.Newsletter) bool {
	if d.Archive == nil || n.MessageID == "" {
		return false
	}
	id := n.MessageID
	found, err := d.Archive.FindNewsletters(ctx, dagkrant.NewsletterFilter{MessageID: &id, Limit: 1})
	if err != nil {
		d.logger().Warn("archive lookup failed", "messageId", id, "error", err)
		return false
	}
	return len(found) > 0
}

// Process cleans every newsletter concurrently and returns the ones worth
// publishing in their input order. Newsletters that fail or end up nearly
// empty are logged and left out.
func (d *Digest) Process(ctx context.Context, items []*dagkrant.Newsletter) []*dagkrant.Newsletter {
	d.setup()
	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*dagkrant.Newsletter, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, n := range items {
		g.Go(func() error {
			out, reason := d.processOne(gctx, n)
			if out == nil {
				d.logger().Warn("newsletter skipped", "subject", n.Subject, "reason", reason)
				return nil
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait()

	kept := results[:0]
	for _, n := range results {
		if n != nil {
			kept = append(kept, n)
		}
	}
	return kept
}

// processOne returns the cleaned newsletter, or nil and the reason it was
// left out.
func (d *Digest) processOne(ctx context.Context, n *dagkrant.Newsletter) (*dagkrant.Newsletter, string) {
	if err := ctx.Err(); err != nil {
		return nil, err.Error()
	}
	if d.Sanitizer.IsWebsiteTemplate(n.HTML) {
		return nil, "website template"
	}

	html := d.Sanitizer.DeduplicateTitle(d.Sanitizer.Sanitize(n.HTML), n.Subject)
	if !d.Sanitizer.HasContent(html) {
		html = d.rescue(n)
	}
	if !d.Sanitizer.HasContent(html) {
		return nil, "nearly empty after cleaning"
	}

	lang := d.Detector.DetectLanguage(html)
	if lang == dagkrant.LanguageEnglish && d.Translator != nil {
		translated, err := retry(ctx, d.retryDelays(), func(ctx context.Context) (string, error) {
			if err := d.wait(ctx); err != nil {
				return "", err
			}
			return d.Translator.Translate(ctx, html)
		}, func(attempt int, err error) {
			d.logger().Debug("retrying translation", "subject", n.Subject, "attempt", attempt, "error", err)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err().Error()
			}
			d.logger().Warn("translation failed, keeping original", "subject", n.Subject, "error", err)
		} else {
			html, lang = translated, dagkrant.LanguageDutch
		}
	}

	if d.MaxWords > 0 {
		html = d.Sanitizer.Truncate(html, d.MaxWords)
	}
	if !d.Sanitizer.HasContent(html) {
		return nil, "nearly empty after translation"
	}

	out := *n
	out.HTML = html
	out.Language = lang
	return &out, ""
}

// rescue extracts the main content of the raw newsletter and cleans it
// again. It returns "" when no Extractor is configured or nothing could
// be extracted.
func (d *Digest) rescue(n *dagkrant.Newsletter) string {
	if d.Extractor == nil {
		return ""
	}
	res, err := d.Extractor.Extract(n.HTML)
	if err != nil {
		d.logger().Debug("rescue failed", "subject", n.Subject, "error", err)
		return ""
	}
	return d.Sanitizer.DeduplicateTitle(d.Sanitizer.Sanitize(res.ContentHTML), n.Subject)
}

// TableOfContents returns one entry per newsletter. When the generator
// fails the entry falls back to the first 50 characters of the subject.
func (d *Digest) TableOfContents(ctx context.Context, items []*dagkrant.Newsletter) []*dagkrant.TOCEntry {
	d.setup()
	entries := make([]*dagkrant.TOCEntry, len(items))
	for i, n := range items {
		entries[i] = d.tocEntry(ctx, n)
	}
	return entries
}

func (d *Digest) tocEntry(ctx context.Context, n *dagkrant.Newsletter) *dagkrant.TOCEntry {
	fallback := &dagkrant.TOCEntry{
		Subject:    n.Subject,
		Sender:     n.Sender,
		ShortTitle: truncateRunes(n.Subject, tocTitleFallback),
	}
	if d.TOC == nil {
		return fallback
	}

	entry, err := retry(ctx, d.retryDelays(), func(ctx context.Context) (*dagkrant.TOCEntry, error) {
		if err := d.wait(ctx); err != nil {
			return nil, err
		}
		return d.TOC.GenerateTOCEntry(ctx, n.Subject, n.Sender)
	}, nil)
	if err != nil || entry == nil {
		d.logger().Warn("toc entry failed, using subject", "subject", n.Subject, "error", err)
		return fallback
	}
	return entry
}

func (d *Digest) archive(ctx context.Context, items []*dagkrant.Newsletter, now time.Time) {
	if d.Archive == nil {
		return
	}
	for _, n := range items {
		err := d.Archive.CreateNewsletter(ctx, n)
		if err != nil && dagkrant.ErrorCode(err) != dagkrant.ECONFLICT {
			d.logger().Warn("archiving failed", "subject", n.Subject, "error", err)
		}
	}
	if d.Retention <= 0 {
		return
	}
	removed, err := d.Archive.DeleteNewslettersBefore(ctx, now.Add(-d.Retention))
	if err != nil {
		d.logger().Warn("pruning archive failed", "error", err)
		return
	}
	d.logger().Debug("pruned archive", "removed", removed)
}

// wait blocks until the shared limiter admits a model call.
func (d *Digest) wait(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}
	return d.limiter.Wait(ctx)
}

func (d *Digest) retryDelays() []time.Duration {
	if d.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return d.RetryDelays
}

func (d *Digest) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// setup applies defaults for the logger and the rate limiter. A negative
// RateLimit disables limiting.
func (d *Digest) setup() {
	d.once.Do(func() {
		d.log = d.Logger
		if d.log == nil {
			d.log = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		rps := d.RateLimit
		if rps == 0 {
			rps = DefaultRateLimit
		}
		if rps > 0 {
			d.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	})
}

func (d *Digest) logger() *slog.Logger {
	return d.log
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
