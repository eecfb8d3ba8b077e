package squirrel

// Element is a node of a parsed HTML document.
type Element interface {
	// TagName returns the lowercase tag name, or "" when unknown.
	TagName() string

	// OwnText returns the text directly contained in the element,
	// excluding text that belongs to descendant elements.
	// The element itself is never modified.
	OwnText() string

	// Children returns the direct child elements in document order.
	Children() []Element
}

// Document is a parsed HTML document that can be queried by CSS selector.
type Document interface {
	// Select returns the elements matching selector in document order.
	// Zero matches is not an error; a malformed selector is.
	Select(selector string) ([]Element, error)
}

// Parser parses raw HTML into a Document.
// Implementations remove non-content elements (script, style, meta, link,
// noscript) so they never contribute to extracted text.
type Parser interface {
	Parse(html string) (Document, error)
}
