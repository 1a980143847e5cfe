package dom

import (
	"strings"
	"unicode/utf8"
)

// Find returns the live elements with one of the given tag names in
// document order. With no tags it returns every element.
func (d *Document) Find(tags ...string) []NodeID {
	return d.FindIn(Root, tags...)
}

// FindIn is like Find but only searches the descendants of id.
func (d *Document) FindIn(id NodeID, tags ...string) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(cur NodeID) {
		for _, c := range d.nodes[cur].children {
			if d.IsElement(c, tags...) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(id)
	return out
}

// Descendants returns every live node below id, of any kind, in document
// order.
func (d *Document) Descendants(id NodeID) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(cur NodeID) {
		for _, c := range d.nodes[cur].children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// First returns the first element named tag in document order, or None.
func (d *Document) First(tag string) NodeID {
	var found = None
	var walk func(NodeID) bool
	walk = func(cur NodeID) bool {
		for _, c := range d.nodes[cur].children {
			if d.IsElement(c, tag) {
				found = c
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(Root)
	return found
}

// Body returns the body element, or Root if the document has none.
func (d *Document) Body() NodeID {
	if body := d.First("body"); body != None {
		return body
	}
	return Root
}

// HasDescendant reports whether id has a descendant element with one of
// the given tag names.
func (d *Document) HasDescendant(id NodeID, tags ...string) bool {
	for _, c := range d.nodes[id].children {
		if d.IsElement(c, tags...) || d.HasDescendant(c, tags...) {
			return true
		}
	}
	return false
}

// NextElementSibling returns the first element following id under the same
// parent, or None.
func (d *Document) NextElementSibling(id NodeID) NodeID {
	for _, s := range d.FollowingSiblings(id) {
		if d.nodes[s].kind == ElementNode {
			return s
		}
	}
	return None
}

// FollowingSiblings returns every node following id under the same parent.
func (d *Document) FollowingSiblings(id NodeID) []NodeID {
	parent := d.nodes[id].parent
	if parent == None {
		return nil
	}
	idx := d.indexOf(parent, id)
	if idx < 0 {
		return nil
	}
	return append([]NodeID(nil), d.nodes[parent].children[idx+1:]...)
}

// Text returns the visible text of the subtree rooted at id with every text
// node trimmed and the pieces concatenated without separator.
func (d *Document) Text(id NodeID) string {
	var b strings.Builder
	d.eachText(id, func(s string) {
		b.WriteString(strings.TrimSpace(s))
	})
	return b.String()
}

// TextLen returns the length of Text(id) in characters.
func (d *Document) TextLen(id NodeID) int {
	return utf8.RuneCountInString(d.Text(id))
}

// JoinedText returns the trimmed, non-empty text nodes of the subtree
// rooted at id joined by sep.
func (d *Document) JoinedText(id NodeID, sep string) string {
	var parts []string
	d.eachText(id, func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	})
	return strings.Join(parts, sep)
}

// RawText returns the text nodes of the subtree rooted at id unmodified.
func (d *Document) RawText(id NodeID) string {
	var b strings.Builder
	d.eachText(id, func(s string) {
		b.WriteString(s)
	})
	return b.String()
}

// WordCount returns the number of whitespace-separated words in the
// visible text of the subtree rooted at id.
func (d *Document) WordCount(id NodeID) int {
	var n int
	d.eachText(id, func(s string) {
		n += len(strings.Fields(s))
	})
	return n
}

// SoleText returns the text of a node that holds exactly one string: a text
// node itself, or an element whose only child (recursively) is one.
func (d *Document) SoleText(id NodeID) (string, bool) {
	n := &d.nodes[id]
	switch n.kind {
	case TextNode:
		return n.data, true
	case ElementNode:
		if len(n.children) != 1 {
			return "", false
		}
		return d.SoleText(n.children[0])
	case DocumentNode, CommentNode, DoctypeNode:
		return "", false
	}
	return "", false
}

// eachText calls fn for every text node below id, skipping the content of
// elements that never render as text.
func (d *Document) eachText(id NodeID, fn func(string)) {
	n := &d.nodes[id]
	switch n.kind {
	case TextNode:
		fn(n.data)
		return
	case ElementNode:
		switch n.tag {
		case "script", "style", "template":
			return
		}
	case CommentNode, DoctypeNode:
		return
	case DocumentNode:
	}
	for _, c := range n.children {
		d.eachText(c, fn)
	}
}
