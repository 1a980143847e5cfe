// Package clean removes noise from newsletter HTML.
//
// Sanitizing runs in two stages. A prefilter rewrites the raw markup to
// remove things that are only reliably matched as text: placeholder
// phrases, code fences left by translation models and Outlook conditional
// comments. The result is parsed into a dom.Document and handed through a
// fixed sequence of pruning passes. Most passes find an element whose text
// matches one of the rule tables and then climb to the largest enclosing
// element that is still small enough to delete safely.
//
// The package does no I/O and never returns errors: markup that cannot be
// interpreted is left alone.
package clean

import (
	"strings"

	"github.com/fwojciec/dagkrant"
	"github.com/fwojciec/dagkrant/dom"
)

// Ensure Sanitizer implements dagkrant.Sanitizer at compile time.
var _ dagkrant.Sanitizer = (*Sanitizer)(nil)

// Sanitizer implements dagkrant.Sanitizer. It holds no per-document state
// and is safe for concurrent use.
type Sanitizer struct {
	rules *Rules
	cfg   Config
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithRules replaces the default rule tables.
func WithRules(r *Rules) Option {
	return func(s *Sanitizer) {
		s.rules = r
	}
}

// WithConfig sets the thresholds. Zero fields keep their defaults.
func WithConfig(c Config) Option {
	return func(s *Sanitizer) {
		s.cfg = c
	}
}

// NewSanitizer creates a Sanitizer using DefaultRules and DefaultConfig
// unless overridden.
func NewSanitizer(opts ...Option) *Sanitizer {
	s := &Sanitizer{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rules == nil {
		s.rules = DefaultRules()
	}
	s.cfg = s.cfg.withDefaults()
	return s
}

// Config returns the thresholds in effect.
func (s *Sanitizer) Config() Config {
	return s.cfg
}

// Sanitize removes noise from html. Empty input is returned unchanged.
func (s *Sanitizer) Sanitize(html string) string {
	if html == "" {
		return html
	}
	// A removal can shrink an ancestor that an earlier pass already judged
	// too long, so sweeps repeat until the output stops changing.
	out := s.sweepOnce(html)
	for range maxSweeps - 1 {
		if out == "" {
			break
		}
		next := s.sweepOnce(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

// maxSweeps bounds the number of full prefilter and pruning rounds.
const maxSweeps = 4

func (s *Sanitizer) sweepOnce(html string) string {
	raw := s.rules.Prefilter(html)
	d, err := dom.Parse(raw)
	if err != nil {
		return raw
	}
	sw := &sweep{d: d, rules: s.rules, cfg: s.cfg}
	sw.run()
	return d.Render()
}

// IsWebsiteTemplate reports whether html reads like a generic company
// website rather than a newsletter.
func (s *Sanitizer) IsWebsiteTemplate(html string) bool {
	d, err := dom.Parse(html)
	if err != nil {
		return false
	}
	text := strings.ToLower(d.JoinedText(dom.Root, " "))
	return s.rules.TemplateSignals.Count(text) >= s.cfg.TemplateMinSignals
}

// HasContent reports whether html has at least MinContentChars characters
// of visible text.
func (s *Sanitizer) HasContent(html string) bool {
	if strings.TrimSpace(html) == "" {
		return false
	}
	d, err := dom.Parse(html)
	if err != nil {
		return false
	}
	return runeLen(d.JoinedText(dom.Root, " ")) >= s.cfg.MinContentChars
}
