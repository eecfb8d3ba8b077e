package mock

import "github.com/fwojciec/squirrel"

var (
	_ squirrel.Parser   = (*Parser)(nil)
	_ squirrel.Document = (*Document)(nil)
)

// Parser is a mock implementation of squirrel.Parser.
type Parser struct {
	ParseFn func(html string) (squirrel.Document, error)
}

func (p *Parser) Parse(html string) (squirrel.Document, error) {
	return p.ParseFn(html)
}

// Document is a mock implementation of squirrel.Document.
type Document struct {
	SelectFn func(selector string) ([]squirrel.Element, error)
}

func (d *Document) Select(selector string) ([]squirrel.Element, error) {
	return d.SelectFn(selector)
}
