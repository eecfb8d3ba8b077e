package squirrel

import (
	"context"
	"encoding/json"
	"time"
)

// Status values recorded in the history.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// HistoryEntry is a recorded scrape.
type HistoryEntry struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Status      string    `json:"status"`
	Content     string    `json:"content,omitempty"`
	Error       string    `json:"error,omitempty"`
	Selectors   string    `json:"selectors,omitempty"`
	ContentHash string    `json:"contentHash,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewHistoryEntry builds the entry recording result for url.
// Field maps are stored as JSON text.
func NewHistoryEntry(url string, selectors SelectorMap, result *Result) (*HistoryEntry, error) {
	entry := &HistoryEntry{
		URL:       url,
		Selectors: selectors.String(),
	}
	if !result.Success {
		entry.Status = StatusError
		entry.Error = result.Error
		return entry, nil
	}

	entry.Status = StatusSuccess
	if result.Data.IsFieldMap() {
		b, err := marshalJSON(result.Data.Fields)
		if err != nil {
			return nil, err
		}
		entry.Content = string(b)
	} else {
		entry.Content = result.Data.Text
	}
	return entry, nil
}

// Validate returns an error if the entry contains invalid fields.
func (e *HistoryEntry) Validate() error {
	if e.URL == "" {
		return Errorf(EINVALID, "history entry URL required")
	}
	switch e.Status {
	case StatusSuccess, StatusError:
	default:
		return Errorf(EINVALID, "history entry status must be %q or %q", StatusSuccess, StatusError)
	}
	return nil
}

// Result rebuilds the scrape result the entry was recorded from.
func (e *HistoryEntry) Result() (*Result, error) {
	if e.Status != StatusSuccess {
		return Fail(e.Error), nil
	}
	if e.Selectors == "" {
		return Succeed(FlatText(e.Content)), nil
	}
	var fields map[string]string
	if err := json.Unmarshal([]byte(e.Content), &fields); err != nil {
		return nil, Errorf(EINTERNAL, "corrupt content for entry %s: %v", e.ID, err)
	}
	return Succeed(FieldMap(fields)), nil
}

// HistoryService represents a service for managing the scrape history.
type HistoryService interface {
	// CreateEntry records a new entry, assigning its ID and timestamps.
	CreateEntry(ctx context.Context, entry *HistoryEntry) error

	// FindEntryByID retrieves an entry by ID.
	// Returns ENOTFOUND if the entry does not exist.
	FindEntryByID(ctx context.Context, id string) (*HistoryEntry, error)

	// FindEntries retrieves entries matching the filter, newest first.
	FindEntries(ctx context.Context, filter HistoryFilter) ([]*HistoryEntry, error)
}

// DefaultHistoryLimit is the number of entries listed when no limit is given.
const DefaultHistoryLimit = 50

// HistoryFilter represents a filter for FindEntries.
type HistoryFilter struct {
	Limit int `json:"limit"`
}
