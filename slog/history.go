package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/squirrel"
)

// Ensure LoggingHistoryService implements squirrel.HistoryService.
var _ squirrel.HistoryService = (*LoggingHistoryService)(nil)

// LoggingHistoryService wraps a HistoryService with debug logging.
type LoggingHistoryService struct {
	next   squirrel.HistoryService
	logger *slog.Logger
}

// NewLoggingHistoryService creates a new LoggingHistoryService.
func NewLoggingHistoryService(next squirrel.HistoryService, logger *slog.Logger) *LoggingHistoryService {
	return &LoggingHistoryService{next: next, logger: logger}
}

// CreateEntry delegates to the wrapped service and logs the operation.
func (s *LoggingHistoryService) CreateEntry(ctx context.Context, entry *squirrel.HistoryEntry) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("history create",
			"id", entry.ID,
			"url", entry.URL,
			"status", entry.Status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateEntry(ctx, entry)
}

// FindEntryByID delegates to the wrapped service and logs the operation.
func (s *LoggingHistoryService) FindEntryByID(ctx context.Context, id string) (entry *squirrel.HistoryEntry, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("history find",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindEntryByID(ctx, id)
}

// FindEntries delegates to the wrapped service and logs the operation.
func (s *LoggingHistoryService) FindEntries(ctx context.Context, filter squirrel.HistoryFilter) (entries []*squirrel.HistoryEntry, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("history list",
			"limit", filter.Limit,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindEntries(ctx, filter)
}
