package mock

import (
	"context"

	"github.com/fwojciec/squirrel"
)

var _ squirrel.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of squirrel.HistoryService.
type HistoryService struct {
	CreateEntryFn   func(ctx context.Context, entry *squirrel.HistoryEntry) error
	FindEntryByIDFn func(ctx context.Context, id string) (*squirrel.HistoryEntry, error)
	FindEntriesFn   func(ctx context.Context, filter squirrel.HistoryFilter) ([]*squirrel.HistoryEntry, error)
}

func (s *HistoryService) CreateEntry(ctx context.Context, entry *squirrel.HistoryEntry) error {
	return s.CreateEntryFn(ctx, entry)
}

func (s *HistoryService) FindEntryByID(ctx context.Context, id string) (*squirrel.HistoryEntry, error) {
	return s.FindEntryByIDFn(ctx, id)
}

func (s *HistoryService) FindEntries(ctx context.Context, filter squirrel.HistoryFilter) ([]*squirrel.HistoryEntry, error) {
	return s.FindEntriesFn(ctx, filter)
}
