package phrase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ExportFilename is the fixed name used for on-demand phrase exports.
const ExportFilename = "chartnote-phrases.json"

// Store is the ordered, persisted phrase list. The full list is written back
// to disk on every mutation; the caller owns the lifecycle (load at startup,
// save on mutation) and all access happens on the UI goroutine.
type Store struct {
	path    string
	logger  *slog.Logger
	phrases []Phrase
}

// NewStore loads the phrase list from path. A missing or unreadable file
// falls back to the default seed list; a present-but-empty list is kept as-is.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}
	s.load()
	return s
}

// load reads the stored list, seeding defaults when the file is absent or
// fails to parse. Parse failures are logged and treated the same as "empty".
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("phrases: read failed, using defaults", "path", s.path, "error", err)
		}
		s.phrases = DefaultSeed()
		return
	}

	var phrases []Phrase
	if err := json.Unmarshal(data, &phrases); err != nil {
		s.logger.Warn("phrases: parse failed, using defaults", "path", s.path, "error", err)
		s.phrases = DefaultSeed()
		return
	}
	if phrases == nil {
		phrases = []Phrase{}
	}
	s.phrases = phrases
}

// Reload re-reads the stored list from disk. Used when the backing file
// changed outside the process.
func (s *Store) Reload() {
	s.load()
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// List returns the phrases in insertion order. The returned slice is a copy.
func (s *Store) List() []Phrase {
	out := make([]Phrase, len(s.phrases))
	copy(out, s.phrases)
	return out
}

// Len returns the number of stored phrases.
func (s *Store) Len() int {
	return len(s.phrases)
}

// Add appends a new phrase built from the given fields and persists the list.
// Trigger uniqueness is intentionally not enforced.
func (s *Store) Add(trigger, expansion, category string) (*Phrase, error) {
	id, err := generateID()
	if err != nil {
		return nil, fmt.Errorf("generate ID: %w", err)
	}

	p := Phrase{
		ID:        id,
		Trigger:   trigger,
		Expansion: expansion,
		Category:  category,
	}
	s.phrases = append(s.phrases, p)

	if err := s.save(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Append appends an already-built phrase and persists the list. Used by
// import paths where the caller controls the ID.
func (s *Store) Append(p Phrase) error {
	s.phrases = append(s.phrases, p)
	return s.save()
}

// Delete removes the first phrase with the given ID and persists the list.
// Deleting an unknown ID is a no-op.
func (s *Store) Delete(id string) error {
	for i, p := range s.phrases {
		if p.ID == id {
			s.phrases = append(s.phrases[:i], s.phrases[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// save serializes the full list back to the backing file.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	data, err := json.MarshalIndent(s.phrases, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal phrases: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write phrases: %w", err)
	}
	return nil
}

// Export writes the phrase list as pretty-printed JSON to ExportFilename
// inside dir and returns the written path.
func (s *Store) Export(dir string) (string, error) {
	data, err := json.MarshalIndent(s.phrases, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal phrases: %w", err)
	}

	path := filepath.Join(dir, ExportFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
