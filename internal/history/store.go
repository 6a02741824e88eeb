package history

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// FileName is the database file inside the config directory
const FileName = "history.db"

// Snapshot is a saved copy of the editor text
type Snapshot struct {
	ID      int64
	Source  string // file path, or "" for text typed or pasted into the editor
	Content string
	Size    int
	Valid   bool
	SavedAt time.Time
}

// Store manages document history persistence
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the history database at path.
// ":memory:" gives a private in-memory store.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add saves a snapshot and returns its ID. A snapshot identical to the
// latest one is not stored again; the latest ID is returned instead.
func (s *Store) Add(snap Snapshot) (int64, error) {
	latest, err := s.Latest()
	if err != nil {
		return 0, err
	}
	if latest != nil && latest.Content == snap.Content && latest.Source == snap.Source {
		return latest.ID, nil
	}

	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}
	if snap.Size == 0 {
		snap.Size = len(snap.Content)
	}

	res, err := s.db.Exec(`
		INSERT INTO document_history (source, content, size, valid, saved_at)
		VALUES (?, ?, ?, ?, ?)`,
		snap.Source,
		snap.Content,
		snap.Size,
		snap.Valid,
		snap.SavedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return res.LastInsertId()
}

// Latest returns the most recent snapshot, or nil when the store is empty
func (s *Store) Latest() (*Snapshot, error) {
	entries, err := s.GetRecent(1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// Get returns a snapshot by ID
func (s *Store) Get(id int64) (*Snapshot, error) {
	row := s.db.QueryRow(`
		SELECT id, source, content, size, valid, saved_at
		FROM document_history
		WHERE id = ?`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetRecent retrieves the most recent snapshots
func (s *Store) GetRecent(limit int) ([]Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, source, content, size, valid, saved_at
		FROM document_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSnapshots(rows)
}

// Search finds snapshots whose content or source contains query
func (s *Store) Search(query string, limit int) ([]Snapshot, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, source, content, size, valid, saved_at
		FROM document_history
		WHERE content LIKE ? OR source LIKE ?
		ORDER BY id DESC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSnapshots(rows)
}

// Prune keeps the newest keep snapshots and deletes the rest
func (s *Store) Prune(keep int) (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM document_history
		WHERE id NOT IN (
			SELECT id FROM document_history ORDER BY id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(
		&snap.ID,
		&snap.Source,
		&snap.Content,
		&snap.Size,
		&snap.Valid,
		&snap.SavedAt,
	)
	return snap, err
}

func scanSnapshots(rows *sql.Rows) ([]Snapshot, error) {
	var entries []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		entries = append(entries, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}
