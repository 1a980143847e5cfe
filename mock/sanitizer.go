package mock

import "github.com/fwojciec/dagkrant"

var _ dagkrant.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of dagkrant.Sanitizer.
type Sanitizer struct {
	SanitizeFn               func(html string) string
	DeduplicateTitleFn       func(html, subject string) string
	TruncateFn               func(html string, maxWords int) string
	IsWebsiteTemplateFn      func(html string) bool
	HasContentFn             func(html string) bool
	DeduplicateNewslettersFn func(items []*dagkrant.Newsletter) []*dagkrant.Newsletter
}

func (s *Sanitizer) Sanitize(html string) string {
	return s.SanitizeFn(html)
}

func (s *Sanitizer) DeduplicateTitle(html, subject string) string {
	return s.DeduplicateTitleFn(html, subject)
}

func (s *Sanitizer) Truncate(html string, maxWords int) string {
	return s.TruncateFn(html, maxWords)
}

func (s *Sanitizer) IsWebsiteTemplate(html string) bool {
	return s.IsWebsiteTemplateFn(html)
}

func (s *Sanitizer) HasContent(html string) bool {
	return s.HasContentFn(html)
}

func (s *Sanitizer) DeduplicateNewsletters(items []*dagkrant.Newsletter) []*dagkrant.Newsletter {
	return s.DeduplicateNewslettersFn(items)
}
