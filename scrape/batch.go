package scrape

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/squirrel"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages scraped at once by Batch.
const DefaultConcurrency = 4

// Progress reports a finished URL during a batch.
type Progress struct {
	URL       string
	Completed int
	Total     int
	Result    *squirrel.Result
}

// ProgressFunc is called once per finished URL. Calls are serialized.
type ProgressFunc func(Progress)

// Batch scrapes many URLs concurrently. Each URL is an independent
// request; one failure never affects the others.
type Batch struct {
	Scraper     squirrel.Scraper
	Limiter     squirrel.DomainLimiter
	Concurrency int
}

// ScrapeAll scrapes urls with the same selectors and returns one result per
// URL, in input order.
func (b *Batch) ScrapeAll(ctx context.Context, urls []string, selectors squirrel.SelectorMap, progress ProgressFunc) []*squirrel.Result {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*squirrel.Result, len(urls))

	var mu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range urls {
		g.Go(func() error {
			results[i] = b.scrapeOne(gctx, u, selectors)

			if progress != nil {
				mu.Lock()
				completed++
				progress(Progress{URL: u, Completed: completed, Total: len(urls), Result: results[i]})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (b *Batch) scrapeOne(ctx context.Context, rawURL string, selectors squirrel.SelectorMap) *squirrel.Result {
	if b.Limiter != nil && squirrel.ValidateURL(rawURL) == nil {
		if u, err := url.Parse(rawURL); err == nil {
			if err := b.Limiter.Wait(ctx, u.Hostname()); err != nil {
				return squirrel.FailWith(&squirrel.FetchError{Kind: squirrel.FetchUnknown, Detail: err.Error()})
			}
		}
	}
	return b.Scraper.Scrape(ctx, rawURL, selectors)
}
