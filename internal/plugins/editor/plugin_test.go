package editor

import (
	"io"
	"log/slog"
	"testing"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkessler/chartnote/internal/config"
	"github.com/mkessler/chartnote/internal/notes"
	"github.com/mkessler/chartnote/internal/phrase"
	"github.com/mkessler/chartnote/internal/plugin"
	"github.com/mkessler/chartnote/internal/session"
	"github.com/mkessler/chartnote/internal/state"
)

var fakeNote = notes.Note{ID: "nt-test", Title: "Test"}

type phraseList []phrase.Phrase

func (l phraseList) List() []phrase.Phrase { return l }

func testPlugin(phrases []phrase.Phrase) *Plugin {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New()
	p.ctx = &plugin.Context{Config: config.Default(), Logger: logger}

	ta := textarea.New()
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(20)
	p.textarea = ta

	p.session = session.New(phraseList(phrases), logger)
	return p
}

func TestCursorOffset_EndOfSingleLine(t *testing.T) {
	p := testPlugin(nil)
	p.textarea.SetValue("Patient is .so")

	if got := p.cursorOffset(); got != 14 {
		t.Errorf("cursorOffset() = %d, want 14", got)
	}
}

func TestCursorOffset_RoundTrip(t *testing.T) {
	p := testPlugin(nil)
	p.textarea.SetValue("first line\nsecond line\nthird")

	for _, offset := range []int{0, 5, 10, 11, 15, 22, 28} {
		p.setCursorOffset(offset)
		if got := p.cursorOffset(); got != offset {
			t.Errorf("round trip offset %d came back as %d", offset, got)
		}
	}
}

func TestSetCursorOffset_ClampsOutOfRange(t *testing.T) {
	p := testPlugin(nil)
	p.textarea.SetValue("short")

	p.setCursorOffset(100)
	if got := p.cursorOffset(); got != 5 {
		t.Errorf("cursorOffset() after over-clamp = %d, want 5", got)
	}

	p.setCursorOffset(-1)
	if got := p.cursorOffset(); got != 0 {
		t.Errorf("cursorOffset() after under-clamp = %d, want 0", got)
	}
}

func TestConfirmExpansion(t *testing.T) {
	p := testPlugin([]phrase.Phrase{
		{ID: "ph-1", Trigger: "soap", Expansion: "S: ***"},
	})
	p.textarea.SetValue("Patient is .so")
	p.syncSession()

	if !p.session.Suggesting() {
		t.Fatal("session should be suggesting after typing a trigger")
	}

	p.confirmExpansion()

	if got := p.textarea.Value(); got != "Patient is S: ***" {
		t.Errorf("buffer = %q, want %q", got, "Patient is S: ***")
	}
	if got := p.cursorOffset(); got != 17 {
		t.Errorf("cursor offset = %d, want 17", got)
	}
	if p.session.Active() {
		t.Error("session should deactivate after expansion")
	}
}

func TestConfirmExpansion_MultilineExpansion(t *testing.T) {
	p := testPlugin([]phrase.Phrase{
		{ID: "ph-1", Trigger: "soap", Expansion: "S: ***\nO: ***"},
	})
	p.textarea.SetValue(".soap")
	p.syncSession()

	p.confirmExpansion()

	if got := p.textarea.Value(); got != "S: ***\nO: ***" {
		t.Errorf("buffer = %q, want %q", got, "S: ***\nO: ***")
	}
	if got := p.cursorOffset(); got != 13 {
		t.Errorf("cursor offset = %d, want 13", got)
	}
}

func TestJumpToPlaceholder(t *testing.T) {
	p := testPlugin(nil)
	p.textarea.SetValue("A *** B ***")
	p.setCursorOffset(0)

	p.jumpToPlaceholder()
	if got := p.cursorOffset(); got != 5 {
		t.Errorf("cursor after first jump = %d, want 5", got)
	}

	p.jumpToPlaceholder()
	if got := p.cursorOffset(); got != 11 {
		t.Errorf("cursor after second jump = %d, want 11", got)
	}

	// Wraps back to the first marker.
	p.jumpToPlaceholder()
	if got := p.cursorOffset(); got != 5 {
		t.Errorf("cursor after wrap = %d, want 5", got)
	}
}

func TestJumpToPlaceholder_NoMarkers(t *testing.T) {
	p := testPlugin(nil)
	p.textarea.SetValue("nothing here")
	p.setCursorOffset(3)

	p.jumpToPlaceholder()
	if got := p.cursorOffset(); got != 3 {
		t.Errorf("cursor moved to %d without a marker, want 3", got)
	}
}

func TestResizeListPane_PersistsWidth(t *testing.T) {
	if err := state.InitWithDir(t.TempDir()); err != nil {
		t.Fatalf("state.InitWithDir() failed: %v", err)
	}
	p := testPlugin(nil)
	p.width = 100
	p.height = 24
	p.calculatePaneWidths()
	before := p.listWidth

	p.handleListKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(">")})
	if p.listWidth != before+2 {
		t.Errorf("listWidth after grow = %d, want %d", p.listWidth, before+2)
	}
	if got := state.GetNoteListWidth(); got != p.listWidth {
		t.Errorf("persisted width = %d, want %d", got, p.listWidth)
	}

	p.handleListKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("<")})
	if p.listWidth != before {
		t.Errorf("listWidth after shrink = %d, want %d", p.listWidth, before)
	}
}

func TestResizeListPane_ClampsToMinimum(t *testing.T) {
	if err := state.InitWithDir(t.TempDir()); err != nil {
		t.Fatalf("state.InitWithDir() failed: %v", err)
	}
	p := testPlugin(nil)
	p.width = 100
	p.height = 24
	p.listWidth = 18 // minimum

	p.resizeListPane(-2)
	if p.listWidth != 18 {
		t.Errorf("listWidth shrunk below minimum: %d", p.listWidth)
	}
}

func TestFocusContext(t *testing.T) {
	p := testPlugin([]phrase.Phrase{
		{ID: "ph-1", Trigger: "soap", Expansion: "S: ***"},
	})

	if got := p.FocusContext(); got != "editor-list" {
		t.Errorf("FocusContext() = %q, want editor-list", got)
	}

	p.current = &fakeNote
	p.activePane = PaneEditor
	if got := p.FocusContext(); got != "editor" {
		t.Errorf("FocusContext() = %q, want editor", got)
	}

	p.textarea.SetValue(".so")
	p.syncSession()
	if got := p.FocusContext(); got != "editor-suggest" {
		t.Errorf("FocusContext() while suggesting = %q, want editor-suggest", got)
	}
}
