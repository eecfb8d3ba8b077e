package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/squirrel"
)

// Ensure LoggingSitemapService implements squirrel.SitemapService.
var _ squirrel.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with discovery logging.
type LoggingSitemapService struct {
	next   squirrel.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next squirrel.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the outcome.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, siteURL string, filter *squirrel.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", siteURL, "count", len(urls), "duration", time.Since(begin)}
		if err != nil {
			s.logger.Warn("sitemap discovery", append(attrs, "err", err)...)
			return
		}
		s.logger.Info("sitemap discovery", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, siteURL, filter)
}
