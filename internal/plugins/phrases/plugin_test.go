package phrases

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/mkessler/chartnote/internal/config"
	"github.com/mkessler/chartnote/internal/phrase"
	"github.com/mkessler/chartnote/internal/plugin"
)

func testPlugin(t *testing.T) *Plugin {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := phrase.NewStore(filepath.Join(t.TempDir(), "phrases.json"), logger)

	cfg := config.Default()
	cfg.Plugins.Phrases.WatchStore = false

	p := New()
	ctx := &plugin.Context{
		WorkDir: t.TempDir(),
		Config:  cfg,
		Logger:  logger,
		Phrases: store,
	}
	if err := p.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	p.width = 80
	p.height = 24
	return p
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFilter_NarrowsList(t *testing.T) {
	p := testPlugin(t)
	total := p.store.Len()
	if total == 0 {
		t.Fatal("store should seed default phrases")
	}

	p.handleKey(keyRunes("/"))
	if p.mode != ModeFilter {
		t.Fatalf("mode = %v, want ModeFilter", p.mode)
	}
	p.handleKey(keyRunes("s"))
	p.handleKey(keyRunes("o"))

	for _, ph := range p.visiblePhrases() {
		if ph.Trigger[:2] != "so" {
			t.Errorf("filtered list contains %q, want only so* triggers", ph.Trigger)
		}
	}

	// Esc clears the filter.
	p.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if got := len(p.visiblePhrases()); got != total {
		t.Errorf("after clearing filter, %d phrases visible, want %d", got, total)
	}
}

func TestDeleteConfirm_Cancel(t *testing.T) {
	p := testPlugin(t)
	before := p.store.Len()

	p.handleKey(keyRunes("d"))
	if p.mode != ModeConfirmDelete {
		t.Fatalf("mode = %v, want ModeConfirmDelete", p.mode)
	}
	p.handleKey(keyRunes("n"))
	if p.mode != ModeList {
		t.Errorf("mode = %v, want ModeList after cancel", p.mode)
	}
	if p.store.Len() != before {
		t.Errorf("store has %d phrases, want %d (cancel must not delete)", p.store.Len(), before)
	}
}

func TestDeleteConfirm_Confirm(t *testing.T) {
	p := testPlugin(t)
	before := p.store.Len()
	target := p.selectedPhrase()
	if target == nil {
		t.Fatal("no phrase selected")
	}

	p.handleKey(keyRunes("d"))
	p.handleKey(keyRunes("y"))

	if p.store.Len() != before-1 {
		t.Errorf("store has %d phrases, want %d", p.store.Len(), before-1)
	}
	for _, ph := range p.store.List() {
		if ph.ID == target.ID {
			t.Errorf("phrase %s still present after delete", target.ID)
		}
	}
}

func TestSubmitForm_RequiresTriggerAndExpansion(t *testing.T) {
	p := testPlugin(t)
	before := p.store.Len()

	p.openForm(false)
	if cmd := p.submitForm(); cmd == nil {
		t.Error("empty form submit should produce an error toast command")
	}
	if p.mode != ModeForm {
		t.Error("invalid submit should keep the form open")
	}
	if p.store.Len() != before {
		t.Error("invalid submit should not add a phrase")
	}
}

func TestSubmitForm_AddsPhrase(t *testing.T) {
	p := testPlugin(t)
	before := p.store.Len()

	p.openForm(false)
	p.form.trigger.SetValue("chest")
	p.form.expansion.SetValue("Chest: clear to auscultation ***")
	p.form.category.SetValue("exam")
	p.submitForm()

	if p.mode != ModeList {
		t.Errorf("mode = %v, want ModeList after submit", p.mode)
	}
	if p.store.Len() != before+1 {
		t.Fatalf("store has %d phrases, want %d", p.store.Len(), before+1)
	}
	list := p.store.List()
	added := list[len(list)-1]
	if added.Trigger != "chest" || added.Category != "exam" {
		t.Errorf("added phrase = %+v, want trigger chest, category exam", added)
	}
}

func TestDraftGeneratedMsg_FillsExpansion(t *testing.T) {
	p := testPlugin(t)
	p.openForm(true)
	p.drafting = true

	p.Update(DraftGeneratedMsg{Text: "HEENT: normocephalic ***"})

	if p.drafting {
		t.Error("drafting flag should clear")
	}
	if got := p.form.expansion.Value(); got != "HEENT: normocephalic ***" {
		t.Errorf("expansion = %q, want draft text", got)
	}
	if p.form.focus != formFieldExpansion {
		t.Errorf("focus = %d, want expansion field for review", p.form.focus)
	}
}

func TestOpenForm_DraftStartsOnDescription(t *testing.T) {
	p := testPlugin(t)

	p.openForm(true)
	if p.form.focus != formFieldDescription {
		t.Errorf("draft form focus = %d, want description", p.form.focus)
	}

	p.openForm(false)
	if p.form.focus != formFieldTrigger {
		t.Errorf("add form focus = %d, want trigger", p.form.focus)
	}
}

func TestCycleFormField_SkipsDescriptionOnAddForm(t *testing.T) {
	p := testPlugin(t)
	p.openForm(false)

	p.cycleFormField(1)
	if p.form.focus != formFieldCategory {
		t.Errorf("focus = %d, want category", p.form.focus)
	}
	p.cycleFormField(1)
	if p.form.focus != formFieldExpansion {
		t.Errorf("focus = %d, want expansion", p.form.focus)
	}
	p.cycleFormField(1)
	if p.form.focus != formFieldTrigger {
		t.Errorf("focus = %d, want wrap back to trigger", p.form.focus)
	}
}

func TestStoreChanged_Reloads(t *testing.T) {
	p := testPlugin(t)
	p.cursor = p.store.Len() - 1

	// Simulate an external truncation of the store.
	for _, ph := range p.store.List() {
		_ = p.store.Delete(ph.ID)
	}
	p.Update(StoreChangedMsg{})

	if p.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0 after reload", p.cursor)
	}
}

func TestInit_WatchesFreshStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// No file on disk yet: NewStore only seeds defaults in memory, the
	// first write happens on the first mutation.
	store := phrase.NewStore(filepath.Join(t.TempDir(), "phrases.json"), logger)

	p := New()
	ctx := &plugin.Context{
		WorkDir: t.TempDir(),
		Config:  config.Default(), // watchStore defaults to true
		Logger:  logger,
		Phrases: store,
	}
	if err := p.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer p.Stop()

	if p.watcher == nil {
		t.Fatal("watcher should arm even when the store file does not exist yet")
	}
}

func TestIsStoreEvent(t *testing.T) {
	storePath := "/home/doc/.config/chartnote/phrases.json"

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"store write", fsnotify.Event{Name: storePath, Op: fsnotify.Write}, true},
		{"store create", fsnotify.Event{Name: storePath, Op: fsnotify.Create}, true},
		{"store rename-replace", fsnotify.Event{Name: storePath, Op: fsnotify.Rename}, true},
		{"store chmod", fsnotify.Event{Name: storePath, Op: fsnotify.Chmod}, false},
		{"sibling file", fsnotify.Event{Name: "/home/doc/.config/chartnote/config.json", Op: fsnotify.Write}, false},
		{"unclean path", fsnotify.Event{Name: "/home/doc/.config/chartnote/./phrases.json", Op: fsnotify.Write}, true},
	}
	for _, tt := range tests {
		if got := isStoreEvent(tt.ev, storePath); got != tt.want {
			t.Errorf("%s: isStoreEvent() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCommands_FilterModeContext(t *testing.T) {
	p := testPlugin(t)
	p.mode = ModeFilter

	cmds := p.Commands()
	if len(cmds) == 0 {
		t.Fatal("filter mode should expose footer commands")
	}
	for _, c := range cmds {
		if c.Context != "phrases-filter" {
			t.Errorf("command %s has context %q, want phrases-filter", c.ID, c.Context)
		}
	}
}

func TestConsumesTextInput(t *testing.T) {
	p := testPlugin(t)

	if p.ConsumesTextInput() {
		t.Error("list mode should not consume text input")
	}
	p.openForm(false)
	if !p.ConsumesTextInput() {
		t.Error("form mode should consume text input")
	}
	p.mode = ModeFilter
	if !p.ConsumesTextInput() {
		t.Error("filter mode should consume text input")
	}
}
