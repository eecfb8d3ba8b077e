package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fwojciec/squirrel"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ squirrel.HistoryService = (*HistoryService)(nil)

// HistoryService implements squirrel.HistoryService using SQLite.
type HistoryService struct {
	db *DB
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB) *HistoryService {
	return &HistoryService{db: db}
}

const historyColumns = "id, url, status, error, content, selectors, content_hash, created_at, updated_at"

// CreateEntry records a new entry, assigning its ID, content hash and timestamps.
func (s *HistoryService) CreateEntry(ctx context.Context, entry *squirrel.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	entry.ID = uuid.New().String()
	entry.ContentHash = ""
	if entry.Content != "" {
		entry.ContentHash = hashContent(entry.Content)
	}
	now := s.db.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scraping_history (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.URL, entry.Status, entry.Error, entry.Content, entry.Selectors, entry.ContentHash,
		formatTime(entry.CreatedAt), formatTime(entry.UpdatedAt))

	return err
}

// FindEntryByID retrieves an entry by ID.
func (s *HistoryService) FindEntryByID(ctx context.Context, id string) (*squirrel.HistoryEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+historyColumns+`
		FROM scraping_history
		WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, squirrel.Errorf(squirrel.ENOTFOUND, "history entry not found")
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// FindEntries retrieves entries newest first, up to filter.Limit when set.
func (s *HistoryService) FindEntries(ctx context.Context, filter squirrel.HistoryFilter) ([]*squirrel.HistoryEntry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + historyColumns + " FROM scraping_history")
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendLimit(&query, &args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*squirrel.HistoryEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*squirrel.HistoryEntry, error) {
	var entry squirrel.HistoryEntry
	var createdAt, updatedAt string

	if err := row.Scan(&entry.ID, &entry.URL, &entry.Status, &entry.Error, &entry.Content,
		&entry.Selectors, &entry.ContentHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if entry.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &entry, nil
}
