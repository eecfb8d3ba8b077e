// Package scrape runs the fetch, parse and extract pipeline and turns every
// outcome into a squirrel.Result.
package scrape

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/squirrel"
)

// Ensure Scraper implements squirrel.Scraper at compile time.
var _ squirrel.Scraper = (*Scraper)(nil)

// Scraper fetches a page, parses it and extracts its text.
// Scraper holds no mutable state and is safe for concurrent use.
type Scraper struct {
	Fetcher squirrel.Fetcher
	Parser  squirrel.Parser
}

// NewScraper creates a new Scraper.
func NewScraper(fetcher squirrel.Fetcher, parser squirrel.Parser) *Scraper {
	return &Scraper{Fetcher: fetcher, Parser: parser}
}

// Scrape fetches url and extracts either the whole body or the given
// selector fields. It never returns a partial result: any failure yields
// a failed Result with a user-facing message.
func (s *Scraper) Scrape(ctx context.Context, url string, selectors squirrel.SelectorMap) *squirrel.Result {
	if err := squirrel.ValidateURL(url); err != nil {
		return squirrel.FailWith(err)
	}

	resp, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return squirrel.FailWith(fetchError(err))
	}

	if resp.StatusCode >= 400 {
		kind := squirrel.FetchHTTPError
		if resp.StatusCode >= 500 {
			kind = squirrel.FetchServerError
		}
		return squirrel.FailWith(&squirrel.FetchError{
			Kind:       kind,
			Status:     resp.StatusCode,
			StatusText: resp.StatusText,
		})
	}

	payload, err := s.extract(resp.Body, selectors)
	if err != nil {
		return squirrel.Fail("Extraction error: " + err.Error())
	}
	return squirrel.Succeed(payload)
}

// extract parses html and runs the extractor, converting panics raised by
// the parser into errors.
func (s *Scraper) extract(html string, selectors squirrel.SelectorMap) (payload squirrel.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	doc, err := s.Parser.Parse(html)
	if err != nil {
		return squirrel.Payload{}, err
	}
	return squirrel.Extract(doc, selectors)
}

// fetchError ensures err is a *squirrel.FetchError.
func fetchError(err error) *squirrel.FetchError {
	var fe *squirrel.FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &squirrel.FetchError{Kind: squirrel.FetchTimeout, Detail: err.Error()}
	}
	return &squirrel.FetchError{Kind: squirrel.FetchUnknown, Detail: err.Error()}
}
