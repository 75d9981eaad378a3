// Package phrases implements the phrase manager plugin: browsing, editing,
// AI drafting, and export of the dot-phrase library.
package phrases

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/mkessler/chartnote/internal/ai"
	"github.com/mkessler/chartnote/internal/msg"
	"github.com/mkessler/chartnote/internal/phrase"
	"github.com/mkessler/chartnote/internal/plugin"
)

const (
	pluginID   = "phrases"
	pluginName = "phrases"
	pluginIcon = "P"

	draftTimeout = 30 * time.Second
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeList Mode = iota
	ModeFilter
	ModeForm
	ModeConfirmDelete
)

// Plugin implements the phrase manager plugin.
type Plugin struct {
	ctx     *plugin.Context
	focused bool
	store   *phrase.Store

	width  int
	height int

	mode      Mode
	cursor    int
	scrollOff int

	// Filter state
	filterQuery string

	// Form state (add / AI draft)
	form     formState
	drafting bool

	// Delete confirmation state
	deleteTarget *phrase.Phrase

	// Store file watcher (nil when disabled in config)
	watcher *fsnotify.Watcher
}

// New creates the phrases plugin.
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
	p.store = ctx.Phrases
	p.mode = ModeList
	p.cursor = 0
	p.scrollOff = 0
	p.filterQuery = ""
	p.drafting = false
	p.deleteTarget = nil
	p.initForm()

	if ctx.Config.Plugins.Phrases.WatchStore {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			ctx.Logger.Warn("phrases: watcher init failed", "error", err)
			return nil
		}
		// Watch the containing directory, not the file: the store file may
		// not exist yet on a fresh install, and editors that rename-replace
		// on save would leave a file watch pointing at the old inode.
		dir := filepath.Dir(p.store.Path())
		if err := os.MkdirAll(dir, 0755); err != nil {
			ctx.Logger.Warn("phrases: watch dir create failed", "dir", dir, "error", err)
			watcher.Close()
			return nil
		}
		if err := watcher.Add(dir); err != nil {
			ctx.Logger.Warn("phrases: watch failed", "dir", dir, "error", err)
			watcher.Close()
			return nil
		}
		p.watcher = watcher
	}
	return nil
}

// Start begins plugin operation.
func (p *Plugin) Start() tea.Cmd {
	if p.watcher == nil {
		return nil
	}
	return p.watchStore()
}

// Stop cleans up plugin resources.
func (p *Plugin) Stop() {
	if p.watcher != nil {
		p.watcher.Close()
		p.watcher = nil
	}
}

// watchStore blocks on the next relevant filesystem event. The watch is on
// the store's directory, so events for sibling files are dropped here.
func (p *Plugin) watchStore() tea.Cmd {
	watcher := p.watcher
	storePath := p.store.Path()
	logger := p.ctx.Logger
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if isStoreEvent(ev, storePath) {
					return StoreChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("phrases: watch error", "error", err)
			}
		}
	}
}

// isStoreEvent reports whether a directory event refers to the store file
// with an op that changes its contents.
func isStoreEvent(ev fsnotify.Event, storePath string) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(storePath) {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// Update handles messages.
func (p *Plugin) Update(teaMsg tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch m := teaMsg.(type) {
	case tea.WindowSizeMsg:
		p.width = m.Width
		p.height = m.Height
		p.resizeForm()

	case StoreChangedMsg:
		p.store.Reload()
		p.clampCursor()
		p.ctx.Logger.Debug("phrases: store reloaded", "count", p.store.Len())
		cmds := []tea.Cmd{func() tea.Msg { return msg.PhrasesChangedMsg{} }}
		if p.watcher != nil {
			cmds = append(cmds, p.watchStore())
		}
		return p, tea.Batch(cmds...)

	case DraftGeneratedMsg:
		p.drafting = false
		if m.Err != nil {
			p.ctx.Logger.Error("phrases: draft failed", "error", m.Err)
			return p, msg.ShowErrorToast("Draft failed: "+m.Err.Error(), 4*time.Second)
		}
		// Fill the expansion for review; the user still confirms the save.
		p.form.expansion.SetValue(m.Text)
		p.focusFormField(formFieldExpansion)
		return p, msg.ShowToast("Draft ready - review and submit", 3*time.Second)

	case ExportedMsg:
		if m.Err != nil {
			return p, msg.ShowErrorToast("Export failed: "+m.Err.Error(), 3*time.Second)
		}
		return p, msg.ShowToast("Exported to "+m.Path, 3*time.Second)

	case tea.KeyMsg:
		return p.handleKey(m)
	}

	if p.mode == ModeForm {
		return p, p.updateFormComponents(teaMsg)
	}
	return p, nil
}

// handleKey processes keyboard input.
func (p *Plugin) handleKey(m tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch p.mode {
	case ModeForm:
		return p.handleFormKey(m)
	case ModeConfirmDelete:
		return p.handleConfirmDeleteKey(m)
	case ModeFilter:
		return p.handleFilterKey(m)
	}
	return p.handleListKey(m)
}

func (p *Plugin) handleListKey(m tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	list := p.visiblePhrases()

	switch m.String() {
	case "j", "down":
		if p.cursor < len(list)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "g":
		p.cursor = 0
		p.scrollOff = 0
	case "G":
		if len(list) > 0 {
			p.cursor = len(list) - 1
		}
	case "a":
		p.openForm(false)
	case "i":
		p.openForm(true)
	case "d":
		if ph := p.selectedPhrase(); ph != nil {
			p.deleteTarget = ph
			p.mode = ModeConfirmDelete
		}
	case "e":
		return p, p.exportPhrases()
	case "r":
		p.store.Reload()
		p.clampCursor()
		return p, tea.Batch(
			msg.ShowToast("Phrases reloaded", 2*time.Second),
			func() tea.Msg { return msg.PhrasesChangedMsg{} },
		)
	case "/":
		p.mode = ModeFilter
	case "esc":
		if p.filterQuery != "" {
			p.filterQuery = ""
			p.clampCursor()
		}
	}
	return p, nil
}

func (p *Plugin) handleFilterKey(m tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch m.String() {
	case "esc":
		p.filterQuery = ""
		p.mode = ModeList
		p.clampCursor()
	case "enter":
		p.mode = ModeList
	case "backspace":
		if len(p.filterQuery) > 0 {
			p.filterQuery = p.filterQuery[:len(p.filterQuery)-1]
			p.clampCursor()
		}
	default:
		if m.Type == tea.KeyRunes {
			p.filterQuery += string(m.Runes)
			p.clampCursor()
		}
	}
	return p, nil
}

func (p *Plugin) handleConfirmDeleteKey(m tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch m.String() {
	case "y", "enter":
		target := p.deleteTarget
		p.deleteTarget = nil
		p.mode = ModeList
		if target == nil {
			return p, nil
		}
		if err := p.store.Delete(target.ID); err != nil {
			p.ctx.Logger.Error("phrases: delete failed", "id", target.ID, "error", err)
			return p, msg.ShowErrorToast("Delete failed: "+err.Error(), 3*time.Second)
		}
		p.clampCursor()
		return p, tea.Batch(
			msg.ShowToast("Deleted ."+target.Trigger, 2*time.Second),
			func() tea.Msg { return msg.PhrasesChangedMsg{} },
		)
	case "n", "esc":
		p.deleteTarget = nil
		p.mode = ModeList
	}
	return p, nil
}

// visiblePhrases applies the list filter to the store contents. The filter
// matches trigger prefixes, same as editor suggestions.
func (p *Plugin) visiblePhrases() []phrase.Phrase {
	all := p.store.List()
	if p.filterQuery == "" {
		return all
	}
	return phrase.Filter(all, p.filterQuery)
}

func (p *Plugin) selectedPhrase() *phrase.Phrase {
	list := p.visiblePhrases()
	if p.cursor < 0 || p.cursor >= len(list) {
		return nil
	}
	ph := list[p.cursor]
	return &ph
}

func (p *Plugin) clampCursor() {
	n := len(p.visiblePhrases())
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// exportPhrases writes the phrase list as a portable JSON file into the
// working directory.
func (p *Plugin) exportPhrases() tea.Cmd {
	store := p.store
	dir := p.ctx.WorkDir
	return func() tea.Msg {
		path, err := store.Export(dir)
		return ExportedMsg{Path: path, Err: err}
	}
}

// generateDraft calls the AI drafter with the form's description.
func (p *Plugin) generateDraft() tea.Cmd {
	description := strings.TrimSpace(p.form.description.Value())
	if description == "" {
		return msg.ShowToast("Describe the phrase first", 2*time.Second)
	}
	p.drafting = true
	model := p.ctx.Config.AI.Model
	logger := p.ctx.Logger

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), draftTimeout)
		defer cancel()

		drafter, err := ai.NewFromEnv(ctx, model)
		if err != nil {
			return DraftGeneratedMsg{Err: err}
		}
		text, err := drafter.Draft(ctx, description)
		if err != nil {
			logger.Error("phrases: generate failed", "model", model, "error", err)
			return DraftGeneratedMsg{Err: err}
		}
		return DraftGeneratedMsg{Text: text}
	}
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// Commands returns the available commands.
func (p *Plugin) Commands() []plugin.Command {
	switch p.mode {
	case ModeForm:
		cmds := []plugin.Command{
			{ID: "submit", Name: "Submit", Description: "Save phrase", Category: plugin.CategoryActions, Context: "phrases-form", Priority: 1},
			{ID: "next-field", Name: "Field", Description: "Next form field", Category: plugin.CategoryNavigation, Context: "phrases-form", Priority: 2},
			{ID: "cancel", Name: "Cancel", Description: "Discard form", Category: plugin.CategoryActions, Context: "phrases-form", Priority: 3},
		}
		if p.form.isDraft {
			cmds = append(cmds, plugin.Command{ID: "generate", Name: "Generate", Description: "Generate draft with AI", Category: plugin.CategoryActions, Context: "phrases-form", Priority: 1})
		}
		return cmds
	case ModeConfirmDelete:
		return []plugin.Command{
			{ID: "confirm", Name: "Delete", Description: "Confirm delete", Category: plugin.CategoryActions, Context: "phrases-confirm-delete", Priority: 1},
			{ID: "cancel", Name: "Cancel", Description: "Keep phrase", Category: plugin.CategoryActions, Context: "phrases-confirm-delete", Priority: 2},
		}
	case ModeFilter:
		return []plugin.Command{
			{ID: "apply-filter", Name: "Apply", Description: "Keep the filter and return to the list", Category: plugin.CategoryActions, Context: "phrases-filter", Priority: 1},
			{ID: "clear-filter", Name: "Clear", Description: "Clear the filter", Category: plugin.CategoryActions, Context: "phrases-filter", Priority: 2},
		}
	}
	return []plugin.Command{
		{ID: "add-phrase", Name: "Add", Description: "Add a phrase", Category: plugin.CategoryActions, Context: "phrases", Priority: 1},
		{ID: "generate-draft", Name: "Draft", Description: "Draft phrase with AI", Category: plugin.CategoryActions, Context: "phrases", Priority: 2},
		{ID: "delete-phrase", Name: "Delete", Description: "Delete selected phrase", Category: plugin.CategoryActions, Context: "phrases", Priority: 3},
		{ID: "export-phrases", Name: "Export", Description: "Export phrases to JSON", Category: plugin.CategoryActions, Context: "phrases", Priority: 4},
		{ID: "filter", Name: "Filter", Description: "Filter by trigger", Category: plugin.CategoryNavigation, Context: "phrases", Priority: 5},
		{ID: "reload-phrases", Name: "Reload", Description: "Reload from disk", Category: plugin.CategoryActions, Context: "phrases", Priority: 6},
	}
}

// FocusContext returns the current focus context.
func (p *Plugin) FocusContext() string {
	switch p.mode {
	case ModeForm:
		return "phrases-form"
	case ModeConfirmDelete:
		return "phrases-confirm-delete"
	case ModeFilter:
		return "phrases-filter"
	}
	return "phrases"
}

// ConsumesTextInput reports whether the plugin has an active text-entry
// surface.
func (p *Plugin) ConsumesTextInput() bool {
	return p.mode == ModeForm || p.mode == ModeFilter
}
