package dagkrant

// Sanitizer removes noise from newsletter HTML and detects redundant
// content. Implementations must be safe for concurrent use by multiple
// goroutines, each sanitizing its own document.
type Sanitizer interface {
	// Sanitize removes navigation chrome, tracking artifacts, footers,
	// advertisements and other noise. Sanitize is idempotent; empty input
	// is returned unchanged.
	Sanitize(html string) string

	// DeduplicateTitle hides the first heading when it restates subject.
	// It is a no-op when either argument is empty.
	DeduplicateTitle(html, subject string) string

	// Truncate removes trailing blocks until html has at most maxWords
	// visible words and appends a truncation notice. Documents already
	// within budget are returned unchanged.
	Truncate(html string, maxWords int) string

	// IsWebsiteTemplate reports whether html looks like a generic website
	// template rather than a newsletter.
	IsWebsiteTemplate(html string) bool

	// HasContent reports whether html still carries enough visible text to
	// be worth including in an edition.
	HasContent(html string) bool

	// DeduplicateNewsletters collapses newsletters with near-identical
	// subjects, keeping the most recently received one.
	DeduplicateNewsletters(items []*Newsletter) []*Newsletter
}
