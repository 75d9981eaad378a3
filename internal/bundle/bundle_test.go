package bundle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plugin")

	written, err := Write(dir, "1.4.0")
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("Write() returned %d paths, want 2", len(written))
	}

	manifest, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(manifest, &m); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if m["version"] != "1.4.0" {
		t.Errorf("manifest version = %v, want 1.4.0", m["version"])
	}
	if m["id"] != "chartnote-companion" {
		t.Errorf("manifest id = %v, want chartnote-companion", m["id"])
	}

	script, err := os.ReadFile(filepath.Join(dir, ScriptName))
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(script), "v1.4.0") {
		t.Error("script missing version stamp")
	}
	// The companion implements the same trigger pattern and marker.
	if !strings.Contains(string(script), `\.([a-zA-Z0-9_-]*)$`) {
		t.Error("script missing trigger pattern")
	}
	if !strings.Contains(string(script), "'***'") {
		t.Error("script missing placeholder marker")
	}
}

func TestWrite_EmptyVersionDefaults(t *testing.T) {
	dir := t.TempDir()

	if _, err := Write(dir, ""); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	manifest, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if !strings.Contains(string(manifest), `"version": "0.0.0"`) {
		t.Error("empty version should default to 0.0.0")
	}
}
