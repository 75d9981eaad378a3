package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkessler/chartnote/internal/msg"
	"github.com/mkessler/chartnote/internal/plugin"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch teaMsg := teaMsg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(teaMsg)

	case tea.WindowSizeMsg:
		m.width = teaMsg.Width
		m.height = teaMsg.Height
		m.ready = true
		// Fall through to the broadcast below so plugins can resize.

	case TickMsg:
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		m.ShowToast(teaMsg.Message, teaMsg.Duration, teaMsg.IsError)
		return m, nil

	case FocusPluginByIDMsg:
		return m, m.FocusPluginByID(teaMsg.PluginID)
	}

	// Forward other messages to ALL plugins, not just the active one.
	// Plugin-specific messages (NotesLoadedMsg, StoreChangedMsg, ...) must
	// reach their target even while another plugin is focused, and
	// PhrasesChangedMsg is a broadcast by design.
	var cmds []tea.Cmd
	plugins := m.registry.Plugins()
	for i, p := range plugins {
		newPlugin, cmd := p.Update(teaMsg)
		plugins[i] = newPlugin
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.updateContext()

	return m, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(teaMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := teaMsg.String()

	if m.showQuitConfirm {
		switch {
		case key == "y" || teaMsg.Type == tea.KeyEnter:
			for _, p := range m.registry.Plugins() {
				p.Stop()
			}
			return m, tea.Quit
		case key == "n" || teaMsg.Type == tea.KeyEsc:
			m.showQuitConfirm = false
		}
		return m, nil
	}

	// Text input contexts forward everything except ctrl+c, so typing a
	// backtick into a note never switches plugins.
	if consumesTextInput(m.ActivePlugin()) {
		if key == "ctrl+c" {
			m.showQuitConfirm = true
			return m, nil
		}
		return m.forwardKeyToActive(teaMsg)
	}

	// App-level commands resolve through the keymap so user overrides
	// apply. Context bindings shadow global ones, which lets a plugin
	// reclaim a global key inside its own context.
	switch cmd, _ := m.keymap.Lookup(key, m.activeContext); cmd {
	case "quit":
		m.showQuitConfirm = true
		return m, nil
	case "next-plugin":
		return m, m.NextPlugin()
	case "prev-plugin":
		return m, m.PrevPlugin()
	case "toggle-footer":
		m.showFooter = !m.showFooter
		return m, nil
	}

	return m.forwardKeyToActive(teaMsg)
}

func (m Model) forwardKeyToActive(teaMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.ActivePlugin()
	if p == nil {
		return m, nil
	}
	newPlugin, cmd := p.Update(teaMsg)
	plugins := m.registry.Plugins()
	if m.activePlugin < len(plugins) {
		plugins[m.activePlugin] = newPlugin
	}
	m.updateContext()
	return m, cmd
}

// updateContext sets activeContext from the focused plugin's state.
func (m *Model) updateContext() {
	if p := m.ActivePlugin(); p != nil {
		m.activeContext = p.FocusContext()
	} else {
		m.activeContext = "global"
	}
}

func consumesTextInput(p plugin.Plugin) bool {
	if p == nil {
		return false
	}
	c, ok := p.(plugin.TextInputConsumer)
	return ok && c.ConsumesTextInput()
}
