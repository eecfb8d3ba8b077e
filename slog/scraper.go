package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/squirrel"
)

// Ensure LoggingScraper implements squirrel.Scraper.
var _ squirrel.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper and logs every result.
type LoggingScraper struct {
	next   squirrel.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next squirrel.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape delegates to the wrapped scraper and logs the result.
func (s *LoggingScraper) Scrape(ctx context.Context, url string, selectors squirrel.SelectorMap) *squirrel.Result {
	begin := time.Now()
	result := s.next.Scrape(ctx, url, selectors)

	if !result.Success {
		s.logger.Warn("scrape",
			"url", url,
			"selectors", len(selectors),
			"duration", time.Since(begin),
			"err", result.Error,
		)
		return result
	}
	s.logger.Info("scrape",
		"url", url,
		"selectors", len(selectors),
		"duration", time.Since(begin),
	)
	return result
}
