package clean

import (
	"unicode/utf8"

	"github.com/fwojciec/dagkrant/dom"
)

// Climb walks from id towards the root and returns the outermost ancestor
// reachable through parents for which keep holds. keep receives the
// visible text of the candidate parent. Climbing never reaches html, head
// or body, nor the child of the document root. If keep never holds, id is
// returned.
func Climb(d *dom.Document, id dom.NodeID, keep func(text string) bool) dom.NodeID {
	target := id
	for {
		parent := d.Parent(target)
		if parent == dom.None || isBoundary(d, parent) || d.Parent(parent) == dom.None {
			return target
		}
		if !keep(d.Text(parent)) {
			return target
		}
		target = parent
	}
}

// shorterThan returns a climbing predicate that accepts text below n
// characters.
func shorterThan(n int) func(string) bool {
	return func(text string) bool {
		return utf8.RuneCountInString(text) < n
	}
}

func isBoundary(d *dom.Document, id dom.NodeID) bool {
	return id == dom.Root || d.IsElement(id, "html", "head", "body")
}

// removable reports whether id may be deleted by a pass.
func removable(d *dom.Document, id dom.NodeID) bool {
	return id != dom.None && d.Attached(id) && !isBoundary(d, id)
}

// remove deletes id unless it is a boundary element or already gone.
func remove(d *dom.Document, id dom.NodeID) bool {
	if !removable(d, id) {
		return false
	}
	d.Remove(id)
	return true
}

// elements returns the non-boundary elements with one of tags in document
// order.
func elements(d *dom.Document, tags ...string) []dom.NodeID {
	all := d.Find(tags...)
	out := all[:0]
	for _, id := range all {
		if !isBoundary(d, id) {
			out = append(out, id)
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncateRunes(s string, n int) string {
	i := 0
	for j := range s {
		if i == n {
			return s[:j]
		}
		i++
	}
	return s
}
