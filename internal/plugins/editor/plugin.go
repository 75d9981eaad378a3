// Package editor implements the note editing plugin: a note list pane next
// to a textarea with dot-phrase expansion and placeholder navigation.
package editor

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkessler/chartnote/internal/msg"
	"github.com/mkessler/chartnote/internal/notes"
	"github.com/mkessler/chartnote/internal/plugin"
	"github.com/mkessler/chartnote/internal/session"
	"github.com/mkessler/chartnote/internal/state"
	"github.com/mkessler/chartnote/internal/styles"
)

const (
	pluginID   = "editor"
	pluginName = "editor"
	pluginIcon = "E"

	dividerWidth = 1
)

// FocusPane represents which pane is active.
type FocusPane int

const (
	PaneList FocusPane = iota
	PaneEditor
)

// Plugin implements the note editor plugin.
type Plugin struct {
	ctx     *plugin.Context
	focused bool
	store   *notes.Store
	session *session.Session

	// View dimensions
	width  int
	height int

	// Pane state
	activePane FocusPane
	listWidth  int

	// Note list state
	notes     []notes.Note
	cursor    int
	scrollOff int
	loading   bool
	loadErr   error

	// Editor state
	textarea textarea.Model
	current  *notes.Note
	savedSum uint64 // xxhash of last saved content, for dirty detection

	// Preview state (rendered markdown, read-only)
	previewMode     bool
	previewRendered string
	wrapEnabled     bool

	// Auto-save debounce
	autoSaveID int
}

// New creates the editor plugin.
func New() *Plugin {
	return &Plugin{}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Icon returns the plugin icon character.
func (p *Plugin) Icon() string { return pluginIcon }

// Init initializes the plugin with context.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	p.notes = nil
	p.cursor = 0
	p.scrollOff = 0
	p.loading = false
	p.loadErr = nil
	p.activePane = PaneList
	p.current = nil
	p.previewMode = false
	p.previewRendered = ""
	p.wrapEnabled = state.GetLineWrapEnabled()

	if w := state.GetNoteListWidth(); w > 0 {
		p.listWidth = w
	} else {
		p.listWidth = 0 // calculated on render
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.EndOfBufferCharacter = '~'
	ta.FocusedStyle = textarea.Style{
		Base:             lipgloss.NewStyle(),
		CursorLine:       lipgloss.NewStyle(),
		CursorLineNumber: styles.Muted,
		EndOfBuffer:      styles.Subtle,
		LineNumber:       styles.Muted,
		Placeholder:      styles.Muted,
		Prompt:           lipgloss.NewStyle(),
		Text:             lipgloss.NewStyle(),
	}
	ta.BlurredStyle = ta.FocusedStyle
	// Unbind alt+c (CapitalizeWordForward) - we use it for clipboard copy
	ta.KeyMap.CapitalizeWordForward = key.NewBinding(key.WithDisabled())
	ta.Blur()
	p.textarea = ta

	p.session = session.New(ctx.Phrases, ctx.Logger)

	dbPath := ctx.Config.Plugins.Editor.DBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(ctx.WorkDir, dbPath)
	}
	store, err := notes.NewStore(dbPath)
	if err != nil {
		ctx.Logger.Error("editor: store init failed", "path", dbPath, "error", err)
		p.store = nil
		return nil
	}
	p.store = store
	return nil
}

// Start begins plugin operation.
func (p *Plugin) Start() tea.Cmd {
	if p.store == nil {
		return nil
	}
	return p.loadNotes()
}

// Stop flushes any unsaved edits and closes the note store.
func (p *Plugin) Stop() {
	if p.store == nil {
		return
	}
	if p.current != nil && p.dirty() {
		if err := p.store.UpdateContent(p.current.ID, p.textarea.Value()); err != nil {
			p.ctx.Logger.Error("editor: flush on stop failed", "id", p.current.ID, "error", err)
		}
	}
	p.store.Close()
	p.store = nil
}

// Update handles messages.
func (p *Plugin) Update(teaMsg tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch m := teaMsg.(type) {
	case tea.WindowSizeMsg:
		p.width = m.Width
		p.height = m.Height
		p.updateTextareaDimensions()

	case NotesLoadedMsg:
		p.loading = false
		if m.Err != nil {
			p.loadErr = m.Err
			p.ctx.Logger.Error("editor: load failed", "error", m.Err)
			return p, nil
		}
		p.notes = m.Notes
		p.loadErr = nil
		if p.current != nil {
			// Follow the open note if it moved position (updated_at sort)
			for i, n := range p.notes {
				if n.ID == p.current.ID {
					p.cursor = i
					break
				}
			}
		} else if len(p.notes) > 0 {
			if p.cursor >= len(p.notes) {
				p.cursor = 0
			}
			if id := state.GetLastNoteID(); id != "" {
				for i, n := range p.notes {
					if n.ID == id {
						p.cursor = i
						break
					}
				}
			}
			p.openSelectedNote()
		}

	case NoteCreatedMsg:
		if m.Err != nil {
			p.ctx.Logger.Error("editor: create failed", "error", m.Err)
			return p, msg.ShowErrorToast("Create failed: "+m.Err.Error(), 3*time.Second)
		}
		p.current = m.Note
		p.textarea.SetValue(m.Note.Content)
		p.savedSum = xxhash.Sum64String(m.Note.Content)
		p.activePane = PaneEditor
		p.previewMode = false
		_ = state.SetLastNoteID(m.Note.ID)
		return p, tea.Batch(p.textarea.Focus(), p.loadNotes())

	case NoteSavedMsg:
		if m.Err != nil {
			p.ctx.Logger.Error("editor: save failed", "id", m.ID, "error", m.Err)
			return p, msg.ShowErrorToast("Save failed: "+m.Err.Error(), 3*time.Second)
		}
		p.ctx.Logger.Debug("editor: saved", "id", m.ID)
		return p, p.loadNotes()

	case NoteDeletedMsg:
		if m.Err != nil {
			p.ctx.Logger.Error("editor: delete failed", "id", m.ID, "error", m.Err)
			return p, msg.ShowErrorToast("Delete failed: "+m.Err.Error(), 3*time.Second)
		}
		if p.current != nil && p.current.ID == m.ID {
			p.current = nil
			p.textarea.SetValue("")
			p.session.SetBuffer("", 0)
		}
		return p, tea.Batch(msg.ShowToast("Deleted", 2*time.Second), p.loadNotes())

	case AutoSaveTickMsg:
		if m.ID == p.autoSaveID && p.dirty() && p.current != nil {
			return p, p.saveContent()
		}

	case msg.PhrasesChangedMsg:
		// Re-evaluate the trigger against the updated phrase list.
		p.syncSession()

	case tea.KeyMsg:
		return p.handleKey(m)
	}

	// Pass through other messages to textarea (cursor blink, etc.)
	if p.activePane == PaneEditor && !p.previewMode && p.current != nil {
		var cmd tea.Cmd
		p.textarea, cmd = p.textarea.Update(teaMsg)
		if cmd != nil {
			return p, cmd
		}
	}

	return p, nil
}

// handleKey processes keyboard input.
func (p *Plugin) handleKey(m tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	if p.activePane == PaneEditor && p.current != nil {
		return p.handleEditorKey(m)
	}
	return p.handleListKey(m)
}

// handleListKey handles keys while the note list pane is focused.
func (p *Plugin) handleListKey(m tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	k := m.String()

	switch k {
	case "<":
		p.resizeListPane(-2)
		return p, nil
	case ">":
		p.resizeListPane(2)
		return p, nil
	}

	if len(p.notes) == 0 {
		switch k {
		case "n":
			return p, p.createNote()
		case "r":
			return p, p.loadNotes()
		}
		return p, nil
	}

	switch k {
	case "j", "down":
		if p.cursor < len(p.notes)-1 {
			p.cursor++
		}
		p.openSelectedNote()
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
		p.openSelectedNote()
	case "g":
		p.cursor = 0
		p.scrollOff = 0
		p.openSelectedNote()
	case "G":
		p.cursor = len(p.notes) - 1
		p.openSelectedNote()
	case "n":
		return p, p.createNote()
	case "d":
		return p, p.deleteSelected()
	case "r":
		return p, p.loadNotes()
	case "w":
		p.wrapEnabled = !p.wrapEnabled
		_ = state.SetLineWrapEnabled(p.wrapEnabled)
	case "y":
		return p, p.copySelectedNote()
	case "enter", "tab":
		if p.current != nil {
			p.activePane = PaneEditor
			p.previewMode = false
			p.syncSession()
			return p, p.textarea.Focus()
		}
	}
	return p, nil
}

// handleEditorKey handles keys while the textarea pane is focused.
func (p *Plugin) handleEditorKey(m tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	k := m.String()

	if p.previewMode {
		switch k {
		case "ctrl+g", "esc", "q":
			p.previewMode = false
			return p, p.textarea.Focus()
		case "tab":
			p.previewMode = false
			p.activePane = PaneList
			p.textarea.Blur()
		}
		return p, nil
	}

	// Suggestion popover intercepts its navigation keys while visible.
	if p.session.Suggesting() {
		switch k {
		case "down", "ctrl+n":
			p.session.SelectNext()
			return p, nil
		case "up", "ctrl+p":
			p.session.SelectPrev()
			return p, nil
		case "enter", "tab":
			return p, p.confirmExpansion()
		case "esc":
			p.session.Cancel()
			return p, nil
		}
	}

	switch k {
	case "esc":
		p.activePane = PaneList
		p.session.Cancel()
		p.textarea.Blur()
		return p, nil

	case "ctrl+s":
		p.autoSaveID++
		return p, p.saveContent()

	case "ctrl+j":
		return p, p.jumpToPlaceholder()

	case "ctrl+g":
		return p, p.togglePreview()

	case "alt+c":
		return p, p.copyContent()
	}

	oldValue := p.textarea.Value()

	var cmd tea.Cmd
	p.textarea, cmd = p.textarea.Update(m)

	p.syncSession()

	if p.textarea.Value() != oldValue {
		return p, tea.Batch(cmd, p.startAutoSaveTimer())
	}
	return p, cmd
}

// confirmExpansion applies the selected phrase and moves the textarea
// cursor to the end of the inserted expansion.
func (p *Plugin) confirmExpansion() tea.Cmd {
	if !p.session.Confirm() {
		return nil
	}
	p.textarea.SetValue(p.session.Buffer())
	p.setCursorOffset(p.session.Cursor())
	p.syncSession()
	return p.startAutoSaveTimer()
}

// jumpToPlaceholder moves the cursor to the next *** marker, wrapping to
// the start of the note when none remains after the cursor.
func (p *Plugin) jumpToPlaceholder() tea.Cmd {
	p.syncSession()
	_, _, ok := p.session.NextPlaceholder()
	if !ok {
		return msg.ShowToast("No placeholders", 2*time.Second)
	}
	p.setCursorOffset(p.session.Cursor())
	return nil
}

// togglePreview renders the note as markdown and switches to read-only
// preview, or back to editing.
func (p *Plugin) togglePreview() tea.Cmd {
	if p.previewMode {
		p.previewMode = false
		return p.textarea.Focus()
	}
	wrap := 0
	if p.wrapEnabled {
		wrap = p.textarea.Width()
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return msg.ShowErrorToast("Preview failed: "+err.Error(), 3*time.Second)
	}
	rendered, err := renderer.Render(p.textarea.Value())
	if err != nil {
		p.ctx.Logger.Error("editor: markdown render failed", "error", err)
		return msg.ShowErrorToast("Preview failed: "+err.Error(), 3*time.Second)
	}
	p.previewRendered = rendered
	p.previewMode = true
	p.textarea.Blur()
	return nil
}

// copySelectedNote yanks the content of the note under the list cursor.
// The open note yanks the live buffer, which may be ahead of the store.
func (p *Plugin) copySelectedNote() tea.Cmd {
	note := p.selectedNote()
	if note == nil {
		return nil
	}
	content := note.Content
	if p.current != nil && p.current.ID == note.ID {
		content = p.textarea.Value()
	}
	if content == "" {
		return msg.ShowToast("Note is empty", 2*time.Second)
	}
	if err := clipboard.WriteAll(content); err != nil {
		return msg.ShowErrorToast("Copy failed: "+err.Error(), 2*time.Second)
	}
	return msg.ShowToast("Copied to clipboard", 2*time.Second)
}

// copyContent copies the current note content to the system clipboard.
func (p *Plugin) copyContent() tea.Cmd {
	content := p.textarea.Value()
	if content == "" {
		return msg.ShowToast("No content to copy", 2*time.Second)
	}
	if err := clipboard.WriteAll(content); err != nil {
		return msg.ShowErrorToast("Copy failed: "+err.Error(), 2*time.Second)
	}
	return msg.ShowToast("Copied to clipboard", 2*time.Second)
}

// syncSession feeds the current buffer and cursor into the expansion
// session so trigger state tracks every edit.
func (p *Plugin) syncSession() {
	p.session.SetBuffer(p.textarea.Value(), p.cursorOffset())
}

// cursorOffset returns the cursor position as an absolute byte offset into
// the textarea value.
func (p *Plugin) cursorOffset() int {
	value := p.textarea.Value()
	row := p.textarea.Line()
	li := p.textarea.LineInfo()
	col := li.StartColumn + li.ColumnOffset

	lines := strings.Split(value, "\n")
	offset := 0
	for i := 0; i < row && i < len(lines); i++ {
		offset += len(lines[i]) + 1
	}
	if row < len(lines) {
		runes := []rune(lines[row])
		if col > len(runes) {
			col = len(runes)
		}
		offset += len(string(runes[:col]))
	}
	return offset
}

// setCursorOffset positions the textarea cursor at an absolute byte offset.
// The textarea has no SetRow API, so rows are walked with CursorUp/Down.
func (p *Plugin) setCursorOffset(offset int) {
	value := p.textarea.Value()
	if offset > len(value) {
		offset = len(value)
	}
	if offset < 0 {
		offset = 0
	}

	row := strings.Count(value[:offset], "\n")
	lineStart := strings.LastIndex(value[:offset], "\n") + 1
	col := len([]rune(value[lineStart:offset]))

	current := p.textarea.Line()
	for current > row {
		p.textarea.CursorUp()
		current = p.textarea.Line()
	}
	for current < row {
		p.textarea.CursorDown()
		current = p.textarea.Line()
	}
	p.textarea.SetCursor(col)
}

// openSelectedNote loads the note under the cursor into the textarea.
func (p *Plugin) openSelectedNote() {
	note := p.selectedNote()
	if note == nil {
		p.current = nil
		p.textarea.SetValue("")
		p.session.SetBuffer("", 0)
		return
	}
	if p.current != nil && p.current.ID == note.ID {
		return
	}
	if p.dirty() {
		// Unsaved edits in the open note; don't clobber them.
		return
	}

	p.current = note
	p.textarea.SetValue(note.Content)
	p.savedSum = xxhash.Sum64String(note.Content)
	p.previewMode = false
	p.session.SetBuffer(note.Content, len(note.Content))
	_ = state.SetLastNoteID(note.ID)
}

func (p *Plugin) selectedNote() *notes.Note {
	if p.cursor < 0 || p.cursor >= len(p.notes) {
		return nil
	}
	return &p.notes[p.cursor]
}

// dirty reports whether the textarea differs from the last saved content.
func (p *Plugin) dirty() bool {
	if p.current == nil {
		return false
	}
	return xxhash.Sum64String(p.textarea.Value()) != p.savedSum
}

// updateTextareaDimensions sizes the textarea to the editor pane.
func (p *Plugin) updateTextareaDimensions() {
	if p.width == 0 || p.height == 0 {
		return
	}
	p.calculatePaneWidths()
	editorWidth := p.width - p.listWidth - dividerWidth - 4 // borders + padding
	contentHeight := p.height - 2 - 1                       // borders - status header
	if editorWidth < 1 {
		editorWidth = 1
	}
	if contentHeight < 1 {
		contentHeight = 1
	}
	p.textarea.SetWidth(editorWidth)
	p.textarea.SetHeight(contentHeight)
}

// startAutoSaveTimer starts the autosave debounce timer.
func (p *Plugin) startAutoSaveTimer() tea.Cmd {
	p.autoSaveID++
	id := p.autoSaveID
	debounce := p.ctx.Config.Plugins.Editor.AutosaveDebounce
	return tea.Tick(debounce, func(time.Time) tea.Msg {
		return AutoSaveTickMsg{ID: id}
	})
}

// saveContent writes the editor content back to the note.
func (p *Plugin) saveContent() tea.Cmd {
	if p.current == nil || p.store == nil || !p.dirty() {
		return nil
	}
	content := p.textarea.Value()
	noteID := p.current.ID
	p.savedSum = xxhash.Sum64String(content)

	return func() tea.Msg {
		err := p.store.UpdateContent(noteID, content)
		return NoteSavedMsg{ID: noteID, Err: err}
	}
}

// createNote returns a command that creates a new empty note.
func (p *Plugin) createNote() tea.Cmd {
	if p.store == nil {
		return nil
	}
	return func() tea.Msg {
		note, err := p.store.Create("")
		return NoteCreatedMsg{Note: note, Err: err}
	}
}

// deleteSelected soft-deletes the note under the cursor.
func (p *Plugin) deleteSelected() tea.Cmd {
	note := p.selectedNote()
	if note == nil || p.store == nil {
		return nil
	}
	noteID := note.ID
	return func() tea.Msg {
		err := p.store.Delete(noteID)
		return NoteDeletedMsg{ID: noteID, Err: err}
	}
}

// loadNotes returns a command that loads notes from the store.
func (p *Plugin) loadNotes() tea.Cmd {
	if p.store == nil {
		return nil
	}
	if p.notes == nil {
		p.loading = true
	}
	return func() tea.Msg {
		list, err := p.store.List()
		return NotesLoadedMsg{Notes: list, Err: err}
	}
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// Commands returns the available commands.
func (p *Plugin) Commands() []plugin.Command {
	if p.activePane == PaneEditor && p.current != nil {
		if p.previewMode {
			return []plugin.Command{
				{ID: "toggle-preview", Name: "Edit", Description: "Back to editing", Category: plugin.CategoryView, Context: "editor", Priority: 1},
			}
		}
		if p.session.Suggesting() {
			return []plugin.Command{
				{ID: "suggest-confirm", Name: "Expand", Description: "Insert selected phrase", Category: plugin.CategoryEdit, Context: "editor-suggest", Priority: 1},
				{ID: "suggest-next", Name: "Next", Description: "Next suggestion", Category: plugin.CategoryNavigation, Context: "editor-suggest", Priority: 2},
				{ID: "suggest-cancel", Name: "Dismiss", Description: "Dismiss suggestions", Category: plugin.CategoryNavigation, Context: "editor-suggest", Priority: 3},
			}
		}
		cmds := []plugin.Command{
			{ID: "save-note", Name: "Save", Description: "Save note", Category: plugin.CategoryActions, Context: "editor", Priority: 1},
			{ID: "next-placeholder", Name: "Jump", Description: "Next placeholder", Category: plugin.CategoryNavigation, Context: "editor", Priority: 2},
			{ID: "toggle-preview", Name: "Preview", Description: "Render markdown preview", Category: plugin.CategoryView, Context: "editor", Priority: 3},
			{ID: "copy-note", Name: "Copy", Description: "Copy note to clipboard", Category: plugin.CategoryActions, Context: "editor", Priority: 4},
			{ID: "focus-list", Name: "List", Description: "Back to note list", Category: plugin.CategoryNavigation, Context: "editor", Priority: 5},
		}
		if p.dirty() {
			cmds[0].Name = "Save*"
		}
		return cmds
	}
	return []plugin.Command{
		{ID: "open-note", Name: "Open", Description: "Open selected note", Category: plugin.CategoryActions, Context: "editor-list", Priority: 1},
		{ID: "new-note", Name: "New", Description: "Create new note", Category: plugin.CategoryActions, Context: "editor-list", Priority: 2},
		{ID: "delete-note", Name: "Delete", Description: "Delete selected note", Category: plugin.CategoryActions, Context: "editor-list", Priority: 3},
		{ID: "yank-note", Name: "Yank", Description: "Copy note to clipboard", Category: plugin.CategoryActions, Context: "editor-list", Priority: 4},
		{ID: "toggle-wrap", Name: "Wrap", Description: "Toggle line wrap", Category: plugin.CategoryView, Context: "editor-list", Priority: 5},
		{ID: "shrink-list", Name: "Narrow", Description: "Shrink the list pane", Category: plugin.CategoryView, Context: "editor-list", Priority: 6},
		{ID: "grow-list", Name: "Widen", Description: "Widen the list pane", Category: plugin.CategoryView, Context: "editor-list", Priority: 7},
	}
}

// FocusContext returns the current focus context.
func (p *Plugin) FocusContext() string {
	if p.activePane == PaneEditor && p.current != nil {
		if p.session.Suggesting() && !p.previewMode {
			return "editor-suggest"
		}
		return "editor"
	}
	return "editor-list"
}

// ConsumesTextInput reports whether the editor currently has an active
// text-entry surface and should receive printable keys directly.
func (p *Plugin) ConsumesTextInput() bool {
	return p.activePane == PaneEditor && p.current != nil && !p.previewMode
}
