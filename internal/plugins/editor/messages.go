package editor

import "github.com/mkessler/chartnote/internal/notes"

// NotesLoadedMsg carries the note list loaded from the store.
type NotesLoadedMsg struct {
	Notes []notes.Note
	Err   error
}

// NoteCreatedMsg reports the result of creating a note.
type NoteCreatedMsg struct {
	Note *notes.Note
	Err  error
}

// NoteSavedMsg reports the result of saving note content.
type NoteSavedMsg struct {
	ID  string
	Err error
}

// NoteDeletedMsg reports the result of deleting a note.
type NoteDeletedMsg struct {
	ID  string
	Err error
}

// AutoSaveTickMsg fires after the autosave debounce interval. Stale ticks
// are identified by ID and dropped.
type AutoSaveTickMsg struct {
	ID int
}
