package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkessler/chartnote/internal/state"
	"github.com/mkessler/chartnote/internal/styles"
	"github.com/mkessler/chartnote/internal/ui"
)

// View renders the plugin.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height

	content := p.renderView()
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// calculatePaneWidths sets the list pane width from the persisted
// preference or a 30% default, clamped to sane bounds.
func (p *Plugin) calculatePaneWidths() {
	available := p.width - dividerWidth
	if p.listWidth == 0 {
		p.listWidth = available * 30 / 100
	}

	minWidth := 18
	maxWidth := available - 40 // leave room for the editor
	if maxWidth < minWidth {
		maxWidth = minWidth
	}
	if p.listWidth < minWidth {
		p.listWidth = minWidth
	} else if p.listWidth > maxWidth {
		p.listWidth = maxWidth
	}
}

// resizeListPane nudges the list pane width, re-clamps, and persists the
// preference.
func (p *Plugin) resizeListPane(delta int) {
	if p.width == 0 {
		return
	}
	p.calculatePaneWidths()
	p.listWidth += delta
	p.updateTextareaDimensions() // re-clamps via calculatePaneWidths
	_ = state.SetNoteListWidth(p.listWidth)
}

func (p *Plugin) renderView() string {
	p.calculatePaneWidths()
	p.updateTextareaDimensions()

	editorWidth := p.width - p.listWidth - dividerWidth

	listPane := styles.RenderPanel(p.renderListContent(), p.listWidth, p.height, p.activePane == PaneList)
	editorPane := styles.RenderPanel(p.renderEditorContent(), editorWidth, p.height, p.activePane == PaneEditor)

	layout := lipgloss.JoinHorizontal(lipgloss.Top, listPane, " ", editorPane)

	// Composite the suggestion popover near the cursor while suggesting.
	if p.session.Suggesting() && p.activePane == PaneEditor && !p.previewMode {
		popover := p.renderPopover()
		x, y := p.popoverAnchor()
		layout = ui.OverlayAt(layout, popover, x, y, p.width, p.height)
	}

	return layout
}

// renderListContent renders the note list pane interior.
func (p *Plugin) renderListContent() string {
	var b strings.Builder
	b.WriteString(styles.PanelHeader.Render("Notes"))
	b.WriteString("\n")

	if p.loading {
		b.WriteString(styles.Muted.Render("Loading..."))
		return b.String()
	}
	if p.loadErr != nil {
		b.WriteString(styles.Muted.Render("Load failed: " + p.loadErr.Error()))
		return b.String()
	}
	if len(p.notes) == 0 {
		b.WriteString(styles.Muted.Render("No notes. Press n to create one."))
		return b.String()
	}

	visible := p.height - 4 // borders + header
	if visible < 1 {
		visible = 1
	}
	p.ensureCursorVisible(visible)

	rowWidth := p.listWidth - 4 // borders + padding
	end := p.scrollOff + visible
	if end > len(p.notes) {
		end = len(p.notes)
	}
	for i := p.scrollOff; i < end; i++ {
		n := p.notes[i]
		title := n.Title
		if title == "" {
			title = "(untitled)"
		}
		if p.current != nil && n.ID == p.current.ID && p.dirty() {
			title += " *"
		}
		row := ui.PadToWidth(title, rowWidth)
		if i == p.cursor {
			if p.activePane == PaneList {
				b.WriteString(styles.ListItemFocused.Render(row))
			} else {
				b.WriteString(styles.ListItemSelected.Render(row))
			}
		} else {
			b.WriteString(styles.ListItemNormal.Render(row))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ensureCursorVisible adjusts the list scroll offset.
func (p *Plugin) ensureCursorVisible(visible int) {
	if p.cursor < p.scrollOff {
		p.scrollOff = p.cursor
	}
	if p.cursor >= p.scrollOff+visible {
		p.scrollOff = p.cursor - visible + 1
	}
}

// renderEditorContent renders the editor pane interior.
func (p *Plugin) renderEditorContent() string {
	if p.current == nil {
		return styles.Muted.Render("Select a note, or press n for a new one.")
	}

	var b strings.Builder
	b.WriteString(p.renderStatusLine())
	b.WriteString("\n")
	if p.previewMode {
		b.WriteString(p.previewRendered)
	} else {
		b.WriteString(p.textarea.View())
	}
	return b.String()
}

// renderStatusLine renders the one-line note header above the textarea.
func (p *Plugin) renderStatusLine() string {
	title := p.current.Title
	if title == "" {
		title = "(untitled)"
	}
	status := styles.Title.Render(title)
	if p.previewMode {
		status += styles.Muted.Render("  preview")
	} else if p.dirty() {
		status += styles.Muted.Render("  modified")
	}
	return status
}

// renderPopover renders the suggestion list for the active trigger.
func (p *Plugin) renderPopover() string {
	candidates := p.session.Candidates()
	selected := p.session.Selected()

	rowWidth := 32
	if rowWidth > p.width-4 {
		rowWidth = p.width - 4
	}

	rows := make([]string, 0, len(candidates))
	for i, c := range candidates {
		preview := strings.ReplaceAll(c.Expansion, "\n", " ")
		row := ui.PadToWidth(fmt.Sprintf(".%s  %s", c.Trigger, preview), rowWidth)
		if i == selected {
			rows = append(rows, styles.PopoverItemSelected.Render(row))
		} else {
			rows = append(rows, styles.PopoverItem.Render(row))
		}
	}
	return styles.PopoverBox.Render(strings.Join(rows, "\n"))
}

// popoverAnchor returns the screen position just below the text cursor.
func (p *Plugin) popoverAnchor() (x, y int) {
	li := p.textarea.LineInfo()
	x = p.listWidth + dividerWidth + 2 + li.ColumnOffset
	y = 3 + p.textarea.Line() // top border + status line + next row
	return x, y
}
