package squirrel

import (
	"strings"
)

// DefaultTag is used for annotated lines whose element has no tag name.
const DefaultTag = "span"

// AnnotatedLine pairs an element's tag name with its own text.
type AnnotatedLine struct {
	Tag  string
	Text string
}

// String renders the line as <tag>text</tag>.
func (l AnnotatedLine) String() string {
	return "<" + l.Tag + ">" + l.Text + "</" + l.Tag + ">"
}

// Annotate returns the annotated line for el, or false if el has no own text.
func Annotate(el Element) (AnnotatedLine, bool) {
	text := strings.TrimSpace(el.OwnText())
	if text == "" {
		return AnnotatedLine{}, false
	}
	tag := strings.ToLower(el.TagName())
	if tag == "" {
		tag = DefaultTag
	}
	return AnnotatedLine{Tag: tag, Text: text}, true
}

// Extract converts doc into a payload.
//
// Without selectors every element under <body> is flattened into one
// newline-joined string of annotated lines. With selectors each field gets
// the flattened text of the elements its selector matches; fields that
// match nothing, or whose selector cannot be evaluated, are empty strings.
func Extract(doc Document, selectors SelectorMap) (Payload, error) {
	if len(selectors) == 0 {
		els, err := bodyElements(doc)
		if err != nil {
			return Payload{}, err
		}
		return FlatText(Flatten(els)), nil
	}

	fields := make(map[string]string, len(selectors))
	for name, selector := range selectors {
		fields[name] = extractField(doc, selector)
	}
	return FieldMap(fields), nil
}

// extractField isolates failures so one bad selector leaves only its own
// field empty.
func extractField(doc Document, selector string) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	els, err := doc.Select(selector)
	if err != nil {
		return ""
	}
	return Flatten(els)
}

// bodyElements returns every element below <body>, or below the document
// root when there is no body.
func bodyElements(doc Document) ([]Element, error) {
	body, err := doc.Select("body")
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return doc.Select(":root *")
	}
	return doc.Select("body *")
}

// Flatten renders els and their direct children as annotated lines.
// Each element is followed by its children, so children also reached by a
// descendant walk are produced twice; only the first occurrence of each
// distinct line is kept.
func Flatten(els []Element) string {
	var lines []string
	seen := make(map[string]struct{})

	emit := func(el Element) {
		line, ok := Annotate(el)
		if !ok {
			return
		}
		s := line.String()
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		lines = append(lines, s)
	}

	for _, el := range els {
		emit(el)
		for _, child := range el.Children() {
			emit(child)
		}
	}

	return strings.Join(lines, "\n")
}
