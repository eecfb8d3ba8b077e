package scrape_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/squirrel"
	"github.com/fwojciec/squirrel/mock"
	"github.com/fwojciec/squirrel/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_ScrapeAll(t *testing.T) {
	t.Parallel()

	t.Run("returns results in input order", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Scraper{
			ScrapeFn: func(_ context.Context, url string, _ squirrel.SelectorMap) *squirrel.Result {
				if url == "https://a.example" {
					time.Sleep(20 * time.Millisecond)
				}
				return squirrel.Succeed(squirrel.FlatText(url))
			},
		}

		b := &scrape.Batch{Scraper: inner, Concurrency: 3}
		urls := []string{"https://a.example", "https://b.example", "https://c.example"}

		results := b.ScrapeAll(context.Background(), urls, nil, nil)

		require.Len(t, results, 3)
		for i, url := range urls {
			assert.Equal(t, url, results[i].Data.Text)
		}
	})

	t.Run("isolates failures", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Scraper{
			ScrapeFn: func(_ context.Context, url string, _ squirrel.SelectorMap) *squirrel.Result {
				if url == "bad" {
					return squirrel.Fail(squirrel.MessageInvalidURL)
				}
				return squirrel.Succeed(squirrel.FlatText("ok"))
			},
		}

		b := &scrape.Batch{Scraper: inner}
		results := b.ScrapeAll(context.Background(), []string{"https://a.example", "bad", "https://b.example"}, nil, nil)

		assert.True(t, results[0].Success)
		assert.False(t, results[1].Success)
		assert.True(t, results[2].Success)
	})

	t.Run("never exceeds concurrency", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		inner := &mock.Scraper{
			ScrapeFn: func(context.Context, string, squirrel.SelectorMap) *squirrel.Result {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inFlight.Add(-1)
				return squirrel.Succeed(squirrel.FlatText(""))
			},
		}

		b := &scrape.Batch{Scraper: inner, Concurrency: 2}
		urls := make([]string, 8)
		for i := range urls {
			urls[i] = "https://example.com"
		}

		b.ScrapeAll(context.Background(), urls, nil, nil)

		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("waits on limiter per host", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var domains []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				mu.Lock()
				defer mu.Unlock()
				domains = append(domains, domain)
				return nil
			},
		}
		inner := &mock.Scraper{
			ScrapeFn: func(context.Context, string, squirrel.SelectorMap) *squirrel.Result {
				return squirrel.Succeed(squirrel.FlatText(""))
			},
		}

		b := &scrape.Batch{Scraper: inner, Limiter: limiter, Concurrency: 1}
		b.ScrapeAll(context.Background(), []string{"https://example.com:8443/a", "not a url", "http://other.org/b"}, nil, nil)

		assert.Equal(t, []string{"example.com", "other.org"}, domains)
	})

	t.Run("limiter failure fails only that URL", func(t *testing.T) {
		t.Parallel()

		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				if domain == "slow.example" {
					return errors.New("rate: Wait(n=1) would exceed context deadline")
				}
				return nil
			},
		}
		inner := &mock.Scraper{
			ScrapeFn: func(context.Context, string, squirrel.SelectorMap) *squirrel.Result {
				return squirrel.Succeed(squirrel.FlatText("ok"))
			},
		}

		b := &scrape.Batch{Scraper: inner, Limiter: limiter}
		results := b.ScrapeAll(context.Background(), []string{"https://slow.example", "https://fast.example"}, nil, nil)

		assert.False(t, results[0].Success)
		assert.Contains(t, results[0].Error, "スクレイピングエラー: ")
		assert.True(t, results[1].Success)
	})

	t.Run("reports progress once per URL", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Scraper{
			ScrapeFn: func(context.Context, string, squirrel.SelectorMap) *squirrel.Result {
				return squirrel.Succeed(squirrel.FlatText(""))
			},
		}
		var events []scrape.Progress

		b := &scrape.Batch{Scraper: inner, Concurrency: 4}
		b.ScrapeAll(context.Background(), []string{"https://a.example", "https://b.example", "https://c.example"}, nil, func(p scrape.Progress) {
			events = append(events, p)
		})

		require.Len(t, events, 3)
		assert.Equal(t, 3, events[2].Completed)
		for _, e := range events {
			assert.Equal(t, 3, e.Total)
			assert.NotNil(t, e.Result)
		}
	})

	t.Run("passes selectors through", func(t *testing.T) {
		t.Parallel()

		var got squirrel.SelectorMap
		inner := &mock.Scraper{
			ScrapeFn: func(_ context.Context, _ string, selectors squirrel.SelectorMap) *squirrel.Result {
				got = selectors
				return squirrel.Succeed(squirrel.FieldMap(nil))
			},
		}

		b := &scrape.Batch{Scraper: inner}
		b.ScrapeAll(context.Background(), []string{"https://a.example"}, squirrel.SelectorMap{"t": "h1"}, nil)

		assert.Equal(t, squirrel.SelectorMap{"t": "h1"}, got)
	})
}
