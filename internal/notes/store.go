// Package notes persists clinical notes in a local SQLite database.
package notes

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Note is a single persisted clinical note. Title is derived from the first
// line of the content.
type Note struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Store handles SQLite operations for notes.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the note database path under a working directory.
func DefaultDBPath(workDir string) string {
	return filepath.Join(workDir, ".chartnote", "notes.db")
}

// NewStore opens (and if needed creates) the note database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    deleted_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at DESC);
`
	_, err := s.db.Exec(schema)
	return err
}

// generateID creates a new note ID with "nt-" prefix and 8 hex chars.
func generateID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "nt-" + hex.EncodeToString(b), nil
}

// titleFrom derives a note title from the first line of content.
func titleFrom(content string) string {
	line, _, _ := strings.Cut(content, "\n")
	return strings.TrimSpace(line)
}

// Create inserts a new note with the given content.
func (s *Store) Create(content string) (*Note, error) {
	id, err := generateID()
	if err != nil {
		return nil, fmt.Errorf("generate ID: %w", err)
	}

	now := time.Now().UTC()
	note := &Note{
		ID:        id,
		Title:     titleFrom(content),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.Exec(`
		INSERT INTO notes (id, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, note.ID, note.Title, note.Content,
		note.CreatedAt.Format(time.RFC3339),
		note.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return note, nil
}

// Get retrieves a note by ID. Returns nil without error when absent.
func (s *Store) Get(id string) (*Note, error) {
	row := s.db.QueryRow(`
		SELECT id, title, content, created_at, updated_at, deleted_at
		FROM notes WHERE id = ?
	`, id)

	note, err := scanNote(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	return note, nil
}

// List retrieves all non-deleted notes, most recently updated first.
func (s *Store) List() ([]Note, error) {
	rows, err := s.db.Query(`
		SELECT id, title, content, created_at, updated_at, deleted_at
		FROM notes
		WHERE deleted_at IS NULL
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		note, err := scanNote(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

// UpdateContent replaces a note's content, rederiving the title.
func (s *Store) UpdateContent(id, content string) error {
	note, err := s.Get(id)
	if err != nil {
		return err
	}
	if note == nil || note.DeletedAt != nil {
		return fmt.Errorf("note not found: %s", id)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(`
		UPDATE notes SET title = ?, content = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, titleFrom(content), content, now.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

// Delete performs a soft delete.
func (s *Store) Delete(id string) error {
	note, err := s.Get(id)
	if err != nil {
		return err
	}
	if note == nil {
		return fmt.Errorf("note not found: %s", id)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(`
		UPDATE notes SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, now.Format(time.RFC3339), now.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("soft delete note: %w", err)
	}
	return nil
}

// scanNote scans a note row using the given scan function.
func scanNote(scan func(dest ...any) error) (*Note, error) {
	var note Note
	var createdAt, updatedAt string
	var deletedAt sql.NullString

	if err := scan(&note.ID, &note.Title, &note.Content,
		&createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	note.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	note.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		note.DeletedAt = &t
	}
	return &note, nil
}
