// Package htmldoc turns HTML markup into a navigable element tree for
// microdata extraction. It wraps golang.org/x/net/html and adds the lookups
// the extractor needs: attributes, id index, inherited language and base IRI
// resolution.
package htmldoc

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

var (
	// ErrEmptyDocument is returned for empty or whitespace-only markup.
	ErrEmptyDocument = errors.New("empty document")

	// ErrInvalidIRI is returned when a reference cannot be parsed or resolved.
	ErrInvalidIRI = errors.New("invalid IRI")
)

// Document is a parsed HTML document. It is immutable after Parse and safe
// for concurrent readers.
type Document struct {
	root *html.Node
	base *url.URL
	ids  map[string]*html.Node
}

// Parse builds a Document from markup. base is the document IRI; a <base href>
// element in the markup is resolved against it and takes precedence.
func Parse(markup string, base string) (*Document, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, ErrEmptyDocument
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	doc := &Document{
		root: root,
		ids:  make(map[string]*html.Node),
	}

	if base != "" {
		u, err := parseIRI(base)
		if err != nil {
			return nil, fmt.Errorf("%w: base %q: %v", ErrInvalidIRI, base, err)
		}
		doc.base = u
	}

	var baseElement *html.Node
	doc.Walk(func(n *html.Node) bool {
		if id, ok := Attr(n, "id"); ok && id != "" {
			// First element wins, as with getElementById.
			if _, exists := doc.ids[id]; !exists {
				doc.ids[id] = n
			}
		}
		if baseElement == nil && n.Data == "base" && HasAttr(n, "href") {
			baseElement = n
		}
		return true
	})

	if baseElement != nil {
		href, _ := Attr(baseElement, "href")
		resolved, err := doc.Resolve(href)
		if err != nil {
			return nil, fmt.Errorf("error resolving <base> element: %w", err)
		}
		u, err := parseIRI(resolved)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidIRI, resolved, err)
		}
		doc.base = u
	}

	return doc, nil
}

// ParseReader reads all markup from r and parses it.
func ParseReader(r io.Reader, base string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return Parse(string(data), base)
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Base returns the effective base IRI, or "" if none is known.
func (d *Document) Base() string {
	if d.base == nil {
		return ""
	}
	return formatIRI(d.base)
}

// ElementByID returns the first element in document order carrying id.
func (d *Document) ElementByID(id string) (*html.Node, bool) {
	n, ok := d.ids[id]
	return n, ok
}

// Walk visits every element in document order. Returning false from fn skips
// the element's descendants.
func (d *Document) Walk(fn func(n *html.Node) bool) {
	walk(d.root, fn)
}

func walk(n *html.Node, fn func(n *html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			if c.FirstChild != nil {
				walk(c, fn)
			}
			continue
		}
		if fn(c) {
			walk(c, fn)
		}
	}
}

// Children returns the element children of n in document order.
func Children(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, c)
		}
	}
	return children
}

// Tag returns the lower-case local name of an element.
func Tag(n *html.Node) string {
	return n.Data
}

// Attr looks up an attribute by name.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether n carries the attribute, regardless of its value.
func HasAttr(n *html.Node, name string) bool {
	_, ok := Attr(n, name)
	return ok
}

// Tokens splits an attribute value on ASCII whitespace, preserving order.
func Tokens(n *html.Node, name string) []string {
	v, ok := Attr(n, name)
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// Text returns the concatenated text of all descendant text nodes.
func Text(n *html.Node) string {
	var builder strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				builder.WriteString(c.Data)
			case html.ElementNode:
				collect(c)
			}
		}
	}
	collect(n)
	return builder.String()
}

// Lang returns the language of the nearest ancestor-or-self carrying lang or
// xml:lang. An empty attribute value means the language is unknown.
func Lang(n *html.Node) string {
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		for _, a := range n.Attr {
			if a.Key == "xml:lang" || (a.Namespace == "xml" && a.Key == "lang") {
				return a.Val
			}
		}
		if lang, ok := Attr(n, "lang"); ok {
			return lang
		}
	}
	return ""
}
