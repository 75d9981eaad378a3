package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State holds persistent user preferences.
type State struct {
	ActivePlugin string `json:"activePlugin"` // plugin tab restored on startup

	// Pane width preference (percentage of total width, 0 = use default)
	NoteListWidth int `json:"noteListWidth,omitempty"`

	LineWrapEnabled bool   `json:"lineWrapEnabled,omitempty"`
	LastNoteID      string `json:"lastNoteId,omitempty"` // note reopened on startup
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "chartnote"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{
		ActivePlugin: "editor", // default
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, current)
}

// Save writes state to disk.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetActivePlugin returns the saved active plugin tab.
func GetActivePlugin() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return "editor"
	}
	return current.ActivePlugin
}

// SetActivePlugin saves the active plugin tab.
func SetActivePlugin(id string) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	current.ActivePlugin = id
	mu.Unlock()
	return Save()
}

// GetNoteListWidth returns the saved note list pane width.
// Returns 0 if no preference is saved (use default).
func GetNoteListWidth() int {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return 0
	}
	return current.NoteListWidth
}

// SetNoteListWidth saves the note list pane width.
func SetNoteListWidth(width int) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	current.NoteListWidth = width
	mu.Unlock()
	return Save()
}

// GetLineWrapEnabled returns the saved line wrap preference.
func GetLineWrapEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return false
	}
	return current.LineWrapEnabled
}

// SetLineWrapEnabled saves the line wrap preference.
func SetLineWrapEnabled(enabled bool) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	current.LineWrapEnabled = enabled
	mu.Unlock()
	return Save()
}

// GetLastNoteID returns the note that was open when the app last exited.
func GetLastNoteID() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.LastNoteID
}

// SetLastNoteID saves the currently open note.
func SetLastNoteID(id string) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	current.LastNoteID = id
	mu.Unlock()
	return Save()
}
