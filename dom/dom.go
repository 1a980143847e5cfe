// Package dom provides a mutable HTML tree whose nodes are addressed by
// index into an arena. Each node stores the index of its parent and the
// indexes of its children, so boundary checks are integer comparisons and
// removing a node is a matter of detaching it from its parent and marking
// its subtree dead.
//
// Parsing and rendering are delegated to golang.org/x/net/html.
package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeID addresses a node within a Document.
type NodeID int

// None is the NodeID of a missing node.
const None NodeID = -1

// Root is the NodeID of the document node.
const Root NodeID = 0

// Kind distinguishes the variants a node can take.
type Kind uint8

// Node kinds.
const (
	DocumentNode Kind = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

func (k Kind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DoctypeNode:
		return "doctype"
	}
	return "unknown"
}

type node struct {
	kind     Kind
	tag      string // element name, lower case for HTML elements
	data     string // text, comment or doctype content
	ns       string
	attrs    []html.Attribute
	parent   NodeID
	children []NodeID
	dead     bool
}

// Document is a parsed HTML document. A Document is not safe for concurrent
// use; independent documents may be processed in parallel.
type Document struct {
	nodes    []node
	fragment bool
}

// Parse parses raw as HTML. Input that does not carry its own <html> element
// is treated as a fragment and renders back without the html, head and body
// wrappers the parser adds.
func Parse(raw string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	d := &Document{
		nodes:    make([]node, 0, 64),
		fragment: !strings.Contains(strings.ToLower(raw), "<html"),
	}
	d.importNode(root, None)
	return d, nil
}

// IsFragment reports whether the document was parsed from a fragment.
func (d *Document) IsFragment() bool {
	return d.fragment
}

func (d *Document) importNode(n *html.Node, parent NodeID) {
	var nd node
	switch n.Type {
	case html.DocumentNode:
		nd = node{kind: DocumentNode}
	case html.ElementNode:
		nd = node{kind: ElementNode, tag: n.Data, ns: n.Namespace, attrs: cloneAttrs(n.Attr)}
	case html.TextNode:
		nd = node{kind: TextNode, data: n.Data}
	case html.CommentNode:
		nd = node{kind: CommentNode, data: n.Data}
	case html.DoctypeNode:
		nd = node{kind: DoctypeNode, data: n.Data, attrs: cloneAttrs(n.Attr)}
	default:
		return
	}
	nd.parent = parent
	id := d.add(nd)
	if parent != None {
		d.nodes[parent].children = append(d.nodes[parent].children, id)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.importNode(c, id)
	}
}

func (d *Document) add(n node) NodeID {
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

func cloneAttrs(attrs []html.Attribute) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]html.Attribute, len(attrs))
	copy(out, attrs)
	return out
}

// Render serializes the live part of the document.
func (d *Document) Render() string {
	root := d.export(Root)
	var buf bytes.Buffer
	if !d.fragment {
		_ = html.Render(&buf, root)
		return buf.String()
	}
	for _, tag := range []string{"head", "body"} {
		wrapper := findExported(root, tag)
		if wrapper == nil {
			continue
		}
		for c := wrapper.FirstChild; c != nil; c = c.NextSibling {
			_ = html.Render(&buf, c)
		}
	}
	return buf.String()
}

// Outer serializes node id and its live subtree.
func (d *Document) Outer(id NodeID) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, d.export(id))
	return buf.String()
}

func (d *Document) export(id NodeID) *html.Node {
	n := &d.nodes[id]
	var out *html.Node
	switch n.kind {
	case DocumentNode:
		out = &html.Node{Type: html.DocumentNode}
	case ElementNode:
		out = &html.Node{
			Type:      html.ElementNode,
			Data:      n.tag,
			DataAtom:  atom.Lookup([]byte(n.tag)),
			Namespace: n.ns,
			Attr:      cloneAttrs(n.attrs),
		}
	case TextNode:
		out = &html.Node{Type: html.TextNode, Data: n.data}
	case CommentNode:
		out = &html.Node{Type: html.CommentNode, Data: n.data}
	case DoctypeNode:
		out = &html.Node{Type: html.DoctypeNode, Data: n.data, Attr: cloneAttrs(n.attrs)}
	}
	for _, c := range n.children {
		out.AppendChild(d.export(c))
	}
	return out
}

func findExported(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findExported(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// Kind returns the kind of node id.
func (d *Document) Kind(id NodeID) Kind {
	return d.nodes[id].kind
}

// Tag returns the element name of id, or "" for non-element nodes.
func (d *Document) Tag(id NodeID) string {
	return d.nodes[id].tag
}

// Data returns the content of a text, comment or doctype node.
func (d *Document) Data(id NodeID) string {
	return d.nodes[id].data
}

// Parent returns the parent of id, or None for the root and detached nodes.
func (d *Document) Parent(id NodeID) NodeID {
	return d.nodes[id].parent
}

// Children returns a copy of the child list of id.
func (d *Document) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), d.nodes[id].children...)
}

// Attached reports whether id is still part of the document tree.
func (d *Document) Attached(id NodeID) bool {
	n := &d.nodes[id]
	return !n.dead && (id == Root || n.parent != None)
}

// IsElement reports whether id is an element with one of the given tag
// names. With no tags it reports whether id is an element at all.
func (d *Document) IsElement(id NodeID, tags ...string) bool {
	n := &d.nodes[id]
	if n.kind != ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.tag == t {
			return true
		}
	}
	return false
}

// Attr returns the value of attribute key on id, or "" if it is not set.
func (d *Document) Attr(id NodeID, key string) string {
	v, _ := d.LookupAttr(id, key)
	return v
}

// LookupAttr returns the value of attribute key on id and whether it is set.
func (d *Document) LookupAttr(id NodeID, key string) (string, bool) {
	for _, a := range d.nodes[id].attrs {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key on element id, keeping attribute order.
func (d *Document) SetAttr(id NodeID, key, val string) {
	n := &d.nodes[id]
	if n.kind != ElementNode {
		return
	}
	for i, a := range n.attrs {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.attrs[i].Val = val
			return
		}
	}
	n.attrs = append(n.attrs, html.Attribute{Key: key, Val: val})
}

// NewElement creates a detached element.
func (d *Document) NewElement(tag string, attrs ...html.Attribute) NodeID {
	return d.add(node{kind: ElementNode, tag: tag, attrs: cloneAttrs(attrs), parent: None})
}

// NewText creates a detached text node.
func (d *Document) NewText(s string) NodeID {
	return d.add(node{kind: TextNode, data: s, parent: None})
}

// AppendChild appends child to parent, detaching it from any previous parent.
func (d *Document) AppendChild(parent, child NodeID) {
	if d.nodes[parent].dead || d.nodes[child].dead || parent == child {
		return
	}
	d.detach(child)
	d.nodes[child].parent = parent
	d.nodes[parent].children = append(d.nodes[parent].children, child)
}

// Remove detaches id from the tree and marks its entire subtree dead.
// Removing the root or an already removed node is a no-op.
func (d *Document) Remove(id NodeID) {
	if id == Root || d.nodes[id].dead {
		return
	}
	d.detach(id)
	d.kill(id)
}

// Unwrap replaces id with its children, preserving their order.
func (d *Document) Unwrap(id NodeID) {
	if id == Root || !d.Attached(id) {
		return
	}
	parent := d.nodes[id].parent
	idx := d.indexOf(parent, id)
	children := d.nodes[id].children
	for _, c := range children {
		d.nodes[c].parent = parent
	}
	siblings := d.nodes[parent].children
	merged := make([]NodeID, 0, len(siblings)-1+len(children))
	merged = append(merged, siblings[:idx]...)
	merged = append(merged, children...)
	merged = append(merged, siblings[idx+1:]...)
	d.nodes[parent].children = merged

	d.nodes[id].children = nil
	d.nodes[id].parent = None
	d.nodes[id].dead = true
}

// ReplaceWith puts replacement in the position of id and removes id.
func (d *Document) ReplaceWith(id, replacement NodeID) {
	if id == Root || !d.Attached(id) || d.nodes[replacement].dead {
		return
	}
	d.detach(replacement)
	parent := d.nodes[id].parent
	idx := d.indexOf(parent, id)
	d.nodes[parent].children[idx] = replacement
	d.nodes[replacement].parent = parent
	d.nodes[id].parent = None
	d.kill(id)
}

func (d *Document) detach(id NodeID) {
	parent := d.nodes[id].parent
	if parent == None {
		return
	}
	if idx := d.indexOf(parent, id); idx >= 0 {
		siblings := d.nodes[parent].children
		d.nodes[parent].children = append(siblings[:idx:idx], siblings[idx+1:]...)
	}
	d.nodes[id].parent = None
}

func (d *Document) kill(id NodeID) {
	d.nodes[id].dead = true
	for _, c := range d.nodes[id].children {
		d.kill(c)
	}
}

func (d *Document) indexOf(parent, child NodeID) int {
	for i, c := range d.nodes[parent].children {
		if c == child {
			return i
		}
	}
	return -1
}
