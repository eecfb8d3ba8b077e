package scrape_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/squirrel"
	"github.com/fwojciec/squirrel/goquery"
	sqhttp "github.com/fwojciec/squirrel/http"
	"github.com/fwojciec/squirrel/mock"
	"github.com/fwojciec/squirrel/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// htmlFetcher returns a mock fetcher serving body with status 200.
func htmlFetcher(body string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*squirrel.Response, error) {
			return &squirrel.Response{URL: url, StatusCode: 200, StatusText: "OK", Body: body}, nil
		},
	}
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	const page = `<html><body><h1>Hi</h1></body></html>`

	t.Run("flattens body without selectors", func(t *testing.T) {
		t.Parallel()

		s := scrape.NewScraper(htmlFetcher(page), goquery.NewParser())

		result := s.Scrape(context.Background(), "https://example.com", nil)

		require.True(t, result.Success)
		assert.Equal(t, "<h1>Hi</h1>", result.Data.Text)
	})

	t.Run("extracts selector fields", func(t *testing.T) {
		t.Parallel()

		s := scrape.NewScraper(htmlFetcher(page), goquery.NewParser())

		result := s.Scrape(context.Background(), "https://example.com", squirrel.SelectorMap{"title": "h1"})

		require.True(t, result.Success)
		assert.Equal(t, map[string]string{"title": "<h1>Hi</h1>"}, result.Data.Fields)
	})

	t.Run("missing selector is an empty field, not an error", func(t *testing.T) {
		t.Parallel()

		s := scrape.NewScraper(htmlFetcher(page), goquery.NewParser())

		result := s.Scrape(context.Background(), "https://example.com", squirrel.SelectorMap{"missing": ".nope"})

		require.True(t, result.Success)
		assert.Equal(t, map[string]string{"missing": ""}, result.Data.Fields)
	})

	t.Run("returns every requested key", func(t *testing.T) {
		t.Parallel()

		s := scrape.NewScraper(htmlFetcher(page), goquery.NewParser())
		selectors := squirrel.SelectorMap{"a": "h1", "b": ".x", "c": "p[", "d": "#y", "e": "body"}

		result := s.Scrape(context.Background(), "https://example.com", selectors)

		require.True(t, result.Success)
		assert.Len(t, result.Data.Fields, len(selectors))
		for name := range selectors {
			assert.Contains(t, result.Data.Fields, name)
		}
	})

	t.Run("rejects invalid URL without fetching", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*squirrel.Response, error) {
				t.Fatal("fetch must not be called")
				return nil, nil
			},
		}
		s := scrape.NewScraper(fetcher, goquery.NewParser())

		for _, url := range []string{"example.com", "ftp://example.com", "", "http://"} {
			result := s.Scrape(context.Background(), url, nil)

			assert.False(t, result.Success)
			assert.Equal(t, squirrel.MessageInvalidURL, result.Error)
		}
	})

	t.Run("reports client error status", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*squirrel.Response, error) {
				return &squirrel.Response{URL: url, StatusCode: 403, StatusText: "Forbidden", Body: "<p>no</p>"}, nil
			},
		}
		s := scrape.NewScraper(fetcher, goquery.NewParser())

		result := s.Scrape(context.Background(), "https://example.com", nil)

		assert.False(t, result.Success)
		assert.Equal(t, "HTTPエラー: 403 - Forbidden", result.Error)
	})

	t.Run("reports fetch error messages", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*squirrel.Response, error) {
				return nil, &squirrel.FetchError{Kind: squirrel.FetchTimeout}
			},
		}
		s := scrape.NewScraper(fetcher, goquery.NewParser())

		result := s.Scrape(context.Background(), "https://example.com", nil)

		assert.False(t, result.Success)
		assert.Equal(t, squirrel.MessageTimeout, result.Error)
	})

	t.Run("reports unclassified fetch errors generically", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*squirrel.Response, error) {
				return nil, errors.New("socket exploded")
			},
		}
		s := scrape.NewScraper(fetcher, goquery.NewParser())

		result := s.Scrape(context.Background(), "https://example.com", nil)

		assert.Equal(t, "スクレイピングエラー: socket exploded", result.Error)
	})

	t.Run("reports parse errors as extraction errors", func(t *testing.T) {
		t.Parallel()

		parser := &mock.Parser{
			ParseFn: func(string) (squirrel.Document, error) {
				return nil, errors.New("unreadable markup")
			},
		}
		s := scrape.NewScraper(htmlFetcher(page), parser)

		result := s.Scrape(context.Background(), "https://example.com", nil)

		assert.False(t, result.Success)
		assert.Equal(t, "Extraction error: unreadable markup", result.Error)
	})

	t.Run("reports parser panics as extraction errors", func(t *testing.T) {
		t.Parallel()

		parser := &mock.Parser{
			ParseFn: func(string) (squirrel.Document, error) {
				panic("parser bug")
			},
		}
		s := scrape.NewScraper(htmlFetcher(page), parser)

		result := s.Scrape(context.Background(), "https://example.com", nil)

		assert.False(t, result.Success)
		assert.Equal(t, "Extraction error: parser bug", result.Error)
	})

	t.Run("reports body selection errors as extraction errors", func(t *testing.T) {
		t.Parallel()

		parser := &mock.Parser{
			ParseFn: func(string) (squirrel.Document, error) {
				return &mock.Document{
					SelectFn: func(string) ([]squirrel.Element, error) {
						return nil, errors.New("detached tree")
					},
				}, nil
			},
		}
		s := scrape.NewScraper(htmlFetcher(page), parser)

		result := s.Scrape(context.Background(), "https://example.com", nil)

		assert.Equal(t, "Extraction error: detached tree", result.Error)
	})
}

func TestScraper_Scrape_HTTP(t *testing.T) {
	t.Parallel()

	t.Run("reports 404 with status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		s := scrape.NewScraper(sqhttp.NewFetcher(), goquery.NewParser())

		result := s.Scrape(context.Background(), server.URL, nil)

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "404")
		assert.Equal(t, "HTTPエラー: 404 - Not Found", result.Error)
	})

	t.Run("reports unreachable host as no response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := server.URL
		server.Close()

		s := scrape.NewScraper(sqhttp.NewFetcher(sqhttp.WithTimeout(2*time.Second)), goquery.NewParser())

		result := s.Scrape(context.Background(), addr, nil)

		assert.False(t, result.Success)
		assert.Equal(t, squirrel.MessageNoResponse, result.Error)
	})

	t.Run("scrapes a served page end to end", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><head><script>x()</script></head><body><h1>Hi</h1><p>Body <a>link</a></p></body></html>`))
		}))
		defer server.Close()

		s := scrape.NewScraper(sqhttp.NewFetcher(), goquery.NewParser())

		result := s.Scrape(context.Background(), server.URL, nil)

		require.True(t, result.Success)
		assert.Equal(t, "<h1>Hi</h1>\n<p>Body</p>\n<a>link</a>", result.Data.Text)
	})
}
