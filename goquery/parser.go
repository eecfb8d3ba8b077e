// Package goquery implements squirrel.Parser on top of goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/squirrel"
	"golang.org/x/net/html"
)

// NonContentSelector matches elements that never contribute text.
const NonContentSelector = "script, style, meta, link, noscript"

// Ensure Parser implements squirrel.Parser at compile time.
var _ squirrel.Parser = (*Parser)(nil)

// Parser parses HTML with goquery and strips non-content elements.
// Parser is safe for concurrent use; every call owns its document.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses rawHTML and removes script, style, meta, link and noscript
// elements from the tree.
func (p *Parser) Parse(rawHTML string) (squirrel.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, squirrel.Errorf(squirrel.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(NonContentSelector).Remove()

	return &Document{doc: doc}, nil
}

// Ensure Document implements squirrel.Document at compile time.
var _ squirrel.Document = (*Document)(nil)

// Document adapts a goquery.Document to squirrel.Document.
type Document struct {
	doc *goquery.Document
}

// Select compiles selector with cascadia and returns the matching elements
// in document order. A selector that does not compile returns EINVALID
// rather than silently matching nothing.
func (d *Document) Select(selector string) ([]squirrel.Element, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, squirrel.Errorf(squirrel.EINVALID, "invalid selector %q: %v", selector, err)
	}

	sel := d.doc.FindMatcher(matcher)
	elements := make([]squirrel.Element, 0, sel.Length())
	for _, n := range sel.Nodes {
		elements = append(elements, &Element{node: n})
	}
	return elements, nil
}

// Ensure Element implements squirrel.Element at compile time.
var _ squirrel.Element = (*Element)(nil)

// Element adapts an html.Node of type ElementNode.
type Element struct {
	node *html.Node
}

// TagName returns the lowercase tag name.
func (e *Element) TagName() string {
	if e.node.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(e.node.Data)
}

// OwnText concatenates the element's direct text nodes.
func (e *Element) OwnText() string {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// Children returns the direct child elements.
func (e *Element) Children() []squirrel.Element {
	var children []squirrel.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, &Element{node: c})
		}
	}
	return children
}
