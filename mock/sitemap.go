package mock

import (
	"context"

	"github.com/fwojciec/squirrel"
)

var _ squirrel.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of squirrel.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, siteURL string, filter *squirrel.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *squirrel.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, siteURL, filter)
}
