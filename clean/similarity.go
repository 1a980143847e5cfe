package clean

import (
	"strings"

	"github.com/fwojciec/dagkrant"
	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the sequence-alignment ratio of a and b, compared
// character by character. The result lies in [0, 1]; two empty strings
// are identical.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func subjectKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DeduplicateNewsletters collapses newsletters whose subjects are more
// similar than the configured threshold. Of each group the most recently
// received newsletter survives, at the position where the group was first
// seen.
func (s *Sanitizer) DeduplicateNewsletters(items []*dagkrant.Newsletter) []*dagkrant.Newsletter {
	out := make([]*dagkrant.Newsletter, 0, len(items))
	keys := make([]string, 0, len(items))
	for _, n := range items {
		if n == nil {
			continue
		}
		key := subjectKey(n.Subject)
		dup := -1
		for i, k := range keys {
			if Similarity(key, k) > s.cfg.NewsletterSimilarity {
				dup = i
				break
			}
		}
		if dup < 0 {
			out = append(out, n)
			keys = append(keys, key)
			continue
		}
		if n.ReceivedAt.After(out[dup].ReceivedAt) {
			out[dup] = n
			keys[dup] = key
		}
	}
	return out
}
