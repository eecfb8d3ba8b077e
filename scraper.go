package squirrel

import "context"

// Scraper fetches a page and extracts its text.
type Scraper interface {
	// Scrape never returns an error: every failure is reported as a
	// failed Result.
	Scrape(ctx context.Context, url string, selectors SelectorMap) *Result
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context, domain string) error
}
