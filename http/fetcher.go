// Package http provides the HTTP implementation of squirrel.Fetcher and
// the JSON API server.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/squirrel"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 20 * time.Second

// DefaultMaxRedirects is the default number of redirects followed.
const DefaultMaxRedirects = 5

// DefaultUserAgent identifies requests as a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var errTooManyRedirects = errors.New("too many redirects")

// Ensure Fetcher implements squirrel.Fetcher at compile time.
var _ squirrel.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain GET requests.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxRedirects int
	userAgent    string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (20s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRedirects caps the number of redirects followed.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		maxRedirects: DefaultMaxRedirects,
		userAgent:    DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout:       f.timeout,
		CheckRedirect: f.checkRedirect,
	}

	return f
}

func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > f.maxRedirects {
		return fmt.Errorf("stopped after %d redirects: %w", f.maxRedirects, errTooManyRedirects)
	}
	return nil
}

// Fetch retrieves the page at rawURL.
//
// Responses with status 500 and above are returned as FetchServerError.
// Responses in the 4xx range are returned without error; the caller
// decides how to report them.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*squirrel.Response, error) {
	if err := squirrel.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &squirrel.FetchError{Kind: squirrel.FetchUnknown, Detail: err.Error()}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.7,en;q=0.3")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	statusText := statusText(resp)
	if resp.StatusCode >= 500 {
		return nil, &squirrel.FetchError{
			Kind:       squirrel.FetchServerError,
			Status:     resp.StatusCode,
			StatusText: statusText,
		}
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, classify(err)
	}

	return &squirrel.Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		StatusText: statusText,
		Body:       body,
	}, nil
}

// readBody reads the response body and decodes it to UTF-8. A charset from
// the Content-Type header or a byte order mark is always honored; a guessed
// or <meta>-declared one only applies when the body is not already UTF-8.
func readBody(resp *http.Response) (string, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}

	enc, _, certain := charset.DetermineEncoding(raw, resp.Header.Get("Content-Type"))
	if !certain && utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw), nil
	}
	return string(decoded), nil
}

// statusText returns the reason phrase of the response, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// classify maps a transport error to a FetchError.
func classify(err error) *squirrel.FetchError {
	var fe *squirrel.FetchError
	if errors.As(err, &fe) {
		return fe
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &squirrel.FetchError{Kind: squirrel.FetchTimeout, Detail: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &squirrel.FetchError{Kind: squirrel.FetchTimeout, Detail: err.Error()}
	}

	if errors.Is(err, errTooManyRedirects) || errors.Is(err, context.Canceled) {
		return &squirrel.FetchError{Kind: squirrel.FetchUnknown, Detail: err.Error()}
	}

	// Anything else raised while sending the request (DNS failure,
	// refused connection, TLS handshake) means no response arrived.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &squirrel.FetchError{Kind: squirrel.FetchNoResponse, Detail: err.Error()}
	}

	return &squirrel.FetchError{Kind: squirrel.FetchUnknown, Detail: err.Error()}
}
