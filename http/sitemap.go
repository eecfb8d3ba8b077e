package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/squirrel"
)

// Ensure SitemapService implements squirrel.SitemapService.
var _ squirrel.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from a site's XML sitemaps.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService using client.
// A nil client gets one with DefaultFetchTimeout.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &SitemapService{client: client, userAgent: DefaultUserAgent}
}

// statusError reports a non-200 response while reading sitemap files.
type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.url)
}

// DiscoverURLs returns the page URLs listed by the sitemaps of siteURL.
func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *squirrel.URLFilter) ([]string, error) {
	if err := squirrel.ValidateURL(siteURL); err != nil {
		return nil, squirrel.Errorf(squirrel.EINVALID, "invalid site URL %q", siteURL)
	}
	site, err := url.Parse(siteURL)
	if err != nil {
		return nil, squirrel.Errorf(squirrel.EINVALID, "invalid site URL %q: %v", siteURL, err)
	}
	root := &url.URL{Scheme: site.Scheme, Host: site.Host}

	sitemaps, err := s.locate(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{svc: s, visited: map[string]bool{}, listed: map[string]bool{}}
	for _, sm := range sitemaps {
		if err := w.visit(ctx, sm); err != nil {
			var se *statusError
			if errors.As(err, &se) && se.code == http.StatusNotFound && sm == fallbackSitemap(root) {
				continue
			}
			return nil, err
		}
	}

	prefix := pathPrefix(site.Path)
	urls := []string{}
	for _, u := range w.urls {
		if underPrefix(u, prefix) && filter.Match(u) {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// locate returns the sitemaps named in robots.txt, or /sitemap.xml when
// robots.txt is missing or names none.
func (s *SitemapService) locate(ctx context.Context, root *url.URL) ([]string, error) {
	body, err := s.get(ctx, root.ResolveReference(&url.URL{Path: "/robots.txt"}).String())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return []string{fallbackSitemap(root)}, nil
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok || !strings.EqualFold(key, "sitemap") {
			continue
		}
		if v := strings.TrimSpace(value); v != "" {
			sitemaps = append(sitemaps, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	if len(sitemaps) == 0 {
		return []string{fallbackSitemap(root)}, nil
	}
	return sitemaps, nil
}

func fallbackSitemap(root *url.URL) string {
	return root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &statusError{url: target, code: resp.StatusCode}
	}
	return resp.Body, nil
}

// sitemapWalk follows sitemap indexes and collects page URLs in order.
type sitemapWalk struct {
	svc     *SitemapService
	visited map[string]bool
	listed  map[string]bool
	urls    []string
}

func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return fmt.Errorf("parsing sitemap %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("parsing sitemap %s: empty document", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locs(root, "sitemap") {
			if err := w.visit(ctx, child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, u := range locs(root, "url") {
		if !w.listed[u] {
			w.listed[u] = true
			w.urls = append(w.urls, u)
		}
	}
	return nil
}

// locs returns the non-empty <loc> values of root's tag children.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// pathPrefix turns a site path into a directory prefix; "" means no restriction.
func pathPrefix(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// underPrefix reports whether rawURL's path lies under prefix.
// /docs/ matches /docs and /docs/intro but not /documentation.
func underPrefix(rawURL, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path+"/" == prefix || strings.HasPrefix(u.Path, prefix)
}
