// Package app implements the root bubbletea model that hosts plugins,
// routes keys, and renders the shared chrome (header tabs, footer, toasts).
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkessler/chartnote/internal/config"
	"github.com/mkessler/chartnote/internal/keymap"
	"github.com/mkessler/chartnote/internal/plugin"
	"github.com/mkessler/chartnote/internal/state"
)

// Model is the root application model.
type Model struct {
	cfg      *config.Config
	registry *plugin.Registry
	keymap   *keymap.Registry

	activePlugin  int
	activeContext string

	width  int
	height int
	ready  bool

	showFooter      bool
	showQuitConfirm bool

	// Toast state. statusMsg clears after statusExpiry.
	statusMsg     string
	statusIsError bool
	statusExpiry  time.Time

	version string
}

// New creates the root model. initialPluginID selects the plugin focused
// at startup; unknown IDs fall back to the first registered plugin.
func New(reg *plugin.Registry, km *keymap.Registry, cfg *config.Config, version, initialPluginID string) Model {
	m := Model{
		cfg:           cfg,
		registry:      reg,
		keymap:        km,
		activeContext: "global",
		showFooter:    cfg.UI.ShowFooter,
		version:       version,
	}

	if idx := reg.Index(initialPluginID); idx >= 0 {
		m.activePlugin = idx
	}
	if p := m.ActivePlugin(); p != nil {
		p.SetFocused(true)
		m.activeContext = p.FocusContext()
	}
	return m
}

// Init starts the toast tick and every plugin's background work.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	for _, p := range m.registry.Plugins() {
		if cmd := p.Start(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// ActivePlugin returns the currently focused plugin, or nil.
func (m Model) ActivePlugin() plugin.Plugin {
	plugins := m.registry.Plugins()
	if m.activePlugin < 0 || m.activePlugin >= len(plugins) {
		return nil
	}
	return plugins[m.activePlugin]
}

// SetActivePlugin switches focus to the plugin at idx.
func (m *Model) SetActivePlugin(idx int) tea.Cmd {
	plugins := m.registry.Plugins()
	if idx < 0 || idx >= len(plugins) || idx == m.activePlugin {
		return nil
	}
	if p := m.ActivePlugin(); p != nil {
		p.SetFocused(false)
	}
	m.activePlugin = idx
	p := plugins[idx]
	p.SetFocused(true)
	m.activeContext = p.FocusContext()
	_ = state.SetActivePlugin(p.ID())
	return PluginFocused()
}

// NextPlugin cycles focus forward through the tab order.
func (m *Model) NextPlugin() tea.Cmd {
	if m.registry.Len() == 0 {
		return nil
	}
	return m.SetActivePlugin((m.activePlugin + 1) % m.registry.Len())
}

// PrevPlugin cycles focus backward through the tab order.
func (m *Model) PrevPlugin() tea.Cmd {
	if m.registry.Len() == 0 {
		return nil
	}
	return m.SetActivePlugin((m.activePlugin - 1 + m.registry.Len()) % m.registry.Len())
}

// FocusPluginByID switches focus to the named plugin.
func (m *Model) FocusPluginByID(id string) tea.Cmd {
	if idx := m.registry.Index(id); idx >= 0 {
		return m.SetActivePlugin(idx)
	}
	return nil
}

// ShowToast displays a transient status message in the footer.
func (m *Model) ShowToast(message string, duration time.Duration, isError bool) {
	m.statusMsg = message
	m.statusIsError = isError
	m.statusExpiry = time.Now().Add(duration)
}

// ClearToast removes the status message once it has expired.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}
