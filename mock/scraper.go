package mock

import (
	"context"

	"github.com/fwojciec/squirrel"
)

var (
	_ squirrel.Scraper       = (*Scraper)(nil)
	_ squirrel.DomainLimiter = (*DomainLimiter)(nil)
)

// Scraper is a mock implementation of squirrel.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, url string, selectors squirrel.SelectorMap) *squirrel.Result
}

func (s *Scraper) Scrape(ctx context.Context, url string, selectors squirrel.SelectorMap) *squirrel.Result {
	return s.ScrapeFn(ctx, url, selectors)
}

// DomainLimiter is a mock implementation of squirrel.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
