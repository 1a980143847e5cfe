package clean

import "github.com/fwojciec/dagkrant/dom"

// removeFooters removes trailing unsubscribe, legal and address sections.
// Candidates are collected bottom-up so that the innermost marker of a
// footer is seen first; each candidate then absorbs every enclosing
// container that is itself a short footer.
func (s *sweep) removeFooters() {
	d, footer := s.d, s.rules.Footer
	maxChars := s.cfg.FooterMaxChars

	all := elements(d, footerTags...)
	var found []dom.NodeID
	for i := len(all) - 1; i >= 0; i-- {
		id := all[i]
		text := d.Text(id)
		if runeLen(text) < s.cfg.FooterMinChars || !footer.Match(text) {
			continue
		}
		found = append(found, id)
	}

	for _, id := range found {
		if !d.Attached(id) {
			continue
		}
		target := Climb(d, id, func(text string) bool {
			return footer.Match(text) && runeLen(text) < maxChars
		})
		if d.TextLen(target) < maxChars {
			remove(d, target)
		}
	}
}
