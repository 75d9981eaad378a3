package phrase

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "phrases.json")
}

func TestNewStore_MissingFileSeedsDefaults(t *testing.T) {
	s := NewStore(storePath(t), nil)

	if s.Len() != len(DefaultSeed()) {
		t.Errorf("Len() = %d, want %d", s.Len(), len(DefaultSeed()))
	}
}

func TestNewStore_CorruptFileSeedsDefaults(t *testing.T) {
	path := storePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s := NewStore(path, nil)
	if s.Len() != len(DefaultSeed()) {
		t.Errorf("Len() = %d, want %d after parse failure", s.Len(), len(DefaultSeed()))
	}
}

func TestNewStore_EmptyStoredListStaysEmpty(t *testing.T) {
	path := storePath(t)
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatalf("write empty list: %v", err)
	}

	s := NewStore(path, nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for a stored empty list", s.Len())
	}
}

func TestStore_AddPersists(t *testing.T) {
	path := storePath(t)
	s := NewStore(path, nil)
	before := s.Len()

	p, err := s.Add("bp", "BP *** mmHg", "Vitals")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if p.ID == "" {
		t.Error("Add() returned phrase with empty ID")
	}
	if s.Len() != before+1 {
		t.Errorf("Len() = %d, want %d", s.Len(), before+1)
	}

	// A fresh store on the same path must see the mutation.
	reloaded := NewStore(path, nil)
	if reloaded.Len() != before+1 {
		t.Errorf("reloaded Len() = %d, want %d", reloaded.Len(), before+1)
	}
	last := reloaded.List()[reloaded.Len()-1]
	if last.Trigger != "bp" || last.Expansion != "BP *** mmHg" || last.Category != "Vitals" {
		t.Errorf("reloaded phrase = %+v, want the added one", last)
	}
}

func TestStore_AddDoesNotDedup(t *testing.T) {
	s := NewStore(storePath(t), nil)
	before := s.Len()

	for i := 0; i < 3; i++ {
		if _, err := s.Add("dup", "same expansion", ""); err != nil {
			t.Fatalf("Add() #%d failed: %v", i, err)
		}
	}
	if s.Len() != before+3 {
		t.Errorf("Len() = %d, want %d (no dedup)", s.Len(), before+3)
	}
}

func TestStore_DeleteAbsentIsNoop(t *testing.T) {
	s := NewStore(storePath(t), nil)
	before := s.Len()

	if err := s.Delete("ph-missing"); err != nil {
		t.Fatalf("Delete() of absent ID failed: %v", err)
	}
	if s.Len() != before {
		t.Errorf("Len() = %d, want %d", s.Len(), before)
	}
}

func TestStore_DeleteOnlyPhraseLeavesEmptyList(t *testing.T) {
	path := storePath(t)
	if err := os.WriteFile(path, []byte(`[{"id":"ph-1","trigger":"x","expansion":"y","category":""}]`), 0644); err != nil {
		t.Fatalf("write store file: %v", err)
	}

	s := NewStore(path, nil)
	if err := s.Delete("ph-1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}

	// The empty list is persisted, not reseeded on reload.
	reloaded := NewStore(path, nil)
	if reloaded.Len() != 0 {
		t.Errorf("reloaded Len() = %d, want 0", reloaded.Len())
	}
}

func TestStore_DeleteRemovesFirstMatchOnly(t *testing.T) {
	path := storePath(t)
	s := NewStore(path, nil)
	p1, _ := s.Add("same", "first", "")
	if _, err := s.Add("same", "second", ""); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	before := s.Len()

	if err := s.Delete(p1.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if s.Len() != before-1 {
		t.Errorf("Len() = %d, want %d", s.Len(), before-1)
	}
	for _, p := range s.List() {
		if p.ID == p1.ID {
			t.Errorf("deleted phrase %s still present", p1.ID)
		}
	}
}

func TestStore_Export(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "phrases.json"), nil)

	path, err := s.Export(dir)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if filepath.Base(path) != ExportFilename {
		t.Errorf("export filename = %q, want %q", filepath.Base(path), ExportFilename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var phrases []Phrase
	if err := json.Unmarshal(data, &phrases); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(phrases) != s.Len() {
		t.Errorf("export has %d phrases, want %d", len(phrases), s.Len())
	}
	// Pretty-printed with 2-space indent.
	if len(data) > 2 && data[0] == '[' && data[1] == '{' {
		t.Error("export is not indented")
	}
}

func TestStore_Reload(t *testing.T) {
	path := storePath(t)
	s := NewStore(path, nil)

	if err := os.WriteFile(path, []byte(`[{"id":"ph-x","trigger":"ext","expansion":"edited outside","category":""}]`), 0644); err != nil {
		t.Fatalf("rewrite store file: %v", err)
	}

	s.Reload()
	if s.Len() != 1 || s.List()[0].ID != "ph-x" {
		t.Errorf("Reload() did not pick up external edit: %v", s.List())
	}
}
