package notes

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".chartnote"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	s, err := NewStore(DefaultDBPath(dir))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := testStore(t)

	note, err := s.Create("Visit note\nPatient is stable.")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if note.Title != "Visit note" {
		t.Errorf("Title = %q, want %q", note.Title, "Visit note")
	}

	got, err := s.Get(note.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for existing note")
	}
	if got.Content != note.Content {
		t.Errorf("Content = %q, want %q", got.Content, note.Content)
	}
}

func TestGet_Absent(t *testing.T) {
	s := testStore(t)

	got, err := s.Get("nt-missing")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
}

func TestUpdateContent(t *testing.T) {
	s := testStore(t)
	note, err := s.Create("old title\nbody")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := s.UpdateContent(note.ID, "new title\nnew body"); err != nil {
		t.Fatalf("UpdateContent() failed: %v", err)
	}

	got, err := s.Get(note.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Title != "new title" {
		t.Errorf("Title = %q, want %q", got.Title, "new title")
	}
	if got.Content != "new title\nnew body" {
		t.Errorf("Content = %q", got.Content)
	}
}

func TestDelete_ExcludedFromList(t *testing.T) {
	s := testStore(t)
	a, err := s.Create("keep me")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	b, err := s.Create("delete me")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := s.Delete(b.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() returned %d notes, want 1", len(list))
	}
	if list[0].ID != a.ID {
		t.Errorf("List()[0].ID = %s, want %s", list[0].ID, a.ID)
	}
}

func TestUpdateContent_DeletedNote(t *testing.T) {
	s := testStore(t)
	note, err := s.Create("soon gone")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := s.Delete(note.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if err := s.UpdateContent(note.ID, "zombie write"); err == nil {
		t.Error("UpdateContent() on deleted note should fail")
	}
}
