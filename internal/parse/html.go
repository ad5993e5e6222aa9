package parse

import (
	"bytes"
	"iter"
	"strings"

	"golang.org/x/net/html"

	"econtab/internal/errors"
)

// Document is a traversable HTML node tree.
//
// golang.org/x/net/html is used rather than regex because it correctly
// handles the malformed markup common on statistics portals and yields a
// proper DOM-like structure.
type Document struct {
	root   *html.Node
	source string
}

// Node wraps one element in the tree.
type Node struct {
	n *html.Node
}

// ParseHTML builds a document tree from raw HTML bytes.
func ParseHTML(data []byte, source string) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.MalformedData(source, err, "parsing HTML failed")
	}
	return &Document{root: root, source: source}, nil
}

// FindAll yields the elements with the given tag whose attributes match
// every key/value pair in attrs, in document order. The sequence is lazy
// and restartable: ranging twice walks the tree twice, and an early break
// stops the walk.
func (d *Document) FindAll(tag string, attrs map[string]string) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walkElements(d.root, func(n *html.Node) bool {
			if n.Data != tag || !matchAttrs(n, attrs) {
				return true
			}
			return yield(&Node{n: n})
		})
	}
}

// First returns the first match of FindAll, or nil.
func (d *Document) First(tag string, attrs map[string]string) *Node {
	for n := range d.FindAll(tag, attrs) {
		return n
	}
	return nil
}

// walkElements visits element nodes depth-first in document order. The
// visitor returns false to stop the walk.
func walkElements(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode {
		if !visit(n) {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkElements(c, visit) {
			return false
		}
	}
	return true
}

func matchAttrs(n *html.Node, attrs map[string]string) bool {
	for k, want := range attrs {
		got, ok := attrValue(n, k)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Tag returns the element name.
func (e *Node) Tag() string { return e.n.Data }

// Text returns the concatenated descendant text of the element, trimmed.
// An element with no text content returns the empty string.
func (e *Node) Text() string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(e.n)
	return strings.TrimSpace(sb.String())
}

// Attributes returns the element's attributes as a name to value map.
func (e *Node) Attributes() map[string]string {
	out := make(map[string]string, len(e.n.Attr))
	for _, a := range e.n.Attr {
		out[a.Key] = a.Val
	}
	return out
}

// FindAll yields matching descendants of this element, in document order.
func (e *Node) FindAll(tag string, attrs map[string]string) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for c := e.n.FirstChild; c != nil; c = c.NextSibling {
			if !walkElements(c, func(n *html.Node) bool {
				if n.Data != tag || !matchAttrs(n, attrs) {
					return true
				}
				return yield(&Node{n: n})
			}) {
				return
			}
		}
	}
}
