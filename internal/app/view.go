package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkessler/chartnote/internal/keymap"
	"github.com/mkessler/chartnote/internal/plugin"
	"github.com/mkessler/chartnote/internal/styles"
	"github.com/mkessler/chartnote/internal/ui"
)

const (
	headerHeight = 2 // header line + spacing
	footerHeight = 1
	minWidth     = 60
	minHeight    = 16
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		warning := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render(warning))
	}

	contentHeight := m.height - headerHeight
	if m.showFooter {
		contentHeight -= footerHeight
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent(m.width, contentHeight))
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	if m.showQuitConfirm {
		return m.renderQuitConfirmOverlay(b.String())
	}
	return b.String()
}

func (m Model) renderHeader() string {
	title := styles.Logo.Render(" Chartnote") + " "
	titleWidth := lipgloss.Width(title)

	plugins := m.registry.Plugins()
	tabs := make([]string, 0, len(plugins))
	for i, p := range plugins {
		tabs = append(tabs, styles.RenderTab(p.Name(), i == m.activePlugin))
	}
	tabBar := strings.Join(tabs, " ")

	version := styles.Subtle.Render(m.version + " ")

	spacing := m.width - titleWidth - lipgloss.Width(tabBar) - lipgloss.Width(version)
	if spacing < 0 {
		spacing = 0
	}

	header := title + strings.Repeat(" ", spacing/2) + tabBar +
		strings.Repeat(" ", spacing-(spacing/2)) + version
	return styles.Header.Width(m.width).Render(header)
}

// renderContent renders the active plugin's view clamped to the
// allocated area so tall content cannot push the header off-screen.
func (m Model) renderContent(width, height int) string {
	p := m.ActivePlugin()
	if p == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render("No plugins loaded"))
	}
	if height == 0 {
		return ""
	}
	content := p.View(width, height)
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// renderFooter renders the bottom bar with key hints and toast status.
func (m Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		toastStyle := styles.ToastSuccess
		if m.statusIsError {
			toastStyle = styles.ToastError
		}
		status = toastStyle.Render(m.statusMsg)
	}

	statusWidth := lipgloss.Width(status)
	hints := renderHintLineTruncated(m.footerHints(), m.width-statusWidth-4)

	spacing := m.width - lipgloss.Width(hints) - statusWidth
	if spacing < 0 {
		spacing = 0
	}

	footer := hints + strings.Repeat(" ", spacing) + status
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

type footerHint struct {
	keys  string
	label string
}

func (m Model) footerHints() []footerHint {
	var hints []footerHint
	if p := m.ActivePlugin(); p != nil {
		hints = m.pluginFooterHints(p, m.activeContext)
	}
	hints = append(hints,
		footerHint{keys: m.keymap.KeyFor("next-plugin", "global"), label: "switch"},
		footerHint{keys: m.keymap.KeyFor("quit", "global"), label: "quit"},
	)
	return hints
}

// pluginFooterHints lists the active context's commands ordered by
// priority, lowest number first.
func (m Model) pluginFooterHints(p plugin.Plugin, context string) []footerHint {
	if context == "" || context == "global" {
		return nil
	}

	keysByCmd := bindingKeysByCommand(m.keymap.BindingsFor(context), context)

	type cmdWithPriority struct {
		cmd      plugin.Command
		key      string
		priority int
	}
	var cmds []cmdWithPriority
	for _, cmd := range p.Commands() {
		if cmd.Context != context {
			continue
		}
		keys := keysByCmd[cmd.ID]
		if len(keys) == 0 {
			continue
		}
		priority := cmd.Priority
		if priority == 0 {
			priority = 99
		}
		cmds = append(cmds, cmdWithPriority{cmd, keys[0], priority})
	}
	sort.SliceStable(cmds, func(i, j int) bool {
		return cmds[i].priority < cmds[j].priority
	})

	hints := make([]footerHint, 0, len(cmds))
	for _, c := range cmds {
		hints = append(hints, footerHint{keys: c.key, label: c.cmd.Name})
	}
	return hints
}

func bindingKeysByCommand(bindings []keymap.Binding, context string) map[string][]string {
	keysByCmd := make(map[string][]string, len(bindings))
	for _, b := range bindings {
		if b.Context != context {
			continue
		}
		keysByCmd[b.Command] = append(keysByCmd[b.Command], b.Key)
	}
	return keysByCmd
}

// renderHintLineTruncated renders hints, stopping once maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	for _, hint := range hints {
		if hint.keys == "" || hint.label == "" {
			continue
		}
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if result != "" {
			candidate = result + "  " + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}

func (m Model) renderQuitConfirmOverlay(content string) string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Quit Chartnote?"))
	b.WriteString("\n")
	b.WriteString("Unsaved edits autosave before exit.")
	b.WriteString("\n\n")
	b.WriteString(styles.ButtonDangerFocused.Render(" Quit (y) "))
	b.WriteString("  ")
	b.WriteString(styles.Button.Render(" Cancel (n) "))

	modal := styles.ModalBox.Render(b.String())
	return ui.OverlayModal(content, modal, m.width, m.height)
}
