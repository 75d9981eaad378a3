package phrases

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkessler/chartnote/internal/styles"
	"github.com/mkessler/chartnote/internal/ui"
)

// View renders the plugin.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height

	background := p.renderList()

	switch p.mode {
	case ModeForm:
		return ui.OverlayModal(background, p.renderForm(), width, height)
	case ModeConfirmDelete:
		return ui.OverlayModal(background, p.renderConfirmDelete(), width, height)
	}

	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(background)
}

func (p *Plugin) renderList() string {
	var b strings.Builder

	list := p.visiblePhrases()
	header := fmt.Sprintf("Phrases (%d)", len(list))
	b.WriteString(styles.PanelHeader.Render(header))
	b.WriteString("\n")

	if p.mode == ModeFilter || p.filterQuery != "" {
		b.WriteString(styles.Code.Render("/" + p.filterQuery))
		if p.mode == ModeFilter {
			b.WriteString(styles.Muted.Render("▎"))
		}
		b.WriteString("\n")
	}

	if len(list) == 0 {
		if p.filterQuery != "" {
			b.WriteString(styles.Muted.Render("No phrases match ." + p.filterQuery))
		} else {
			b.WriteString(styles.Muted.Render("No phrases. Press a to add one."))
		}
		return styles.RenderPanel(b.String(), p.width, p.height, true)
	}

	visible := p.height - 5 // borders, header, filter line
	if visible < 1 {
		visible = 1
	}
	if p.cursor < p.scrollOff {
		p.scrollOff = p.cursor
	}
	if p.cursor >= p.scrollOff+visible {
		p.scrollOff = p.cursor - visible + 1
	}

	rowWidth := p.width - 6
	end := p.scrollOff + visible
	if end > len(list) {
		end = len(list)
	}
	for i := p.scrollOff; i < end; i++ {
		ph := list[i]
		preview := strings.ReplaceAll(ph.Expansion, "\n", " ")
		label := fmt.Sprintf(".%-14s %s", ph.Trigger, preview)
		if ph.Category != "" {
			label = fmt.Sprintf(".%-14s [%s] %s", ph.Trigger, ph.Category, preview)
		}
		row := ui.PadToWidth(label, rowWidth)
		if i == p.cursor {
			b.WriteString(styles.ListItemFocused.Render(row))
		} else {
			b.WriteString(styles.ListItemNormal.Render(row))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return styles.RenderPanel(b.String(), p.width, p.height, true)
}

func (p *Plugin) renderForm() string {
	var b strings.Builder

	title := "Add Phrase"
	if p.form.isDraft {
		title = "Draft Phrase with AI"
	}
	b.WriteString(styles.ModalTitle.Render(title))
	b.WriteString("\n")

	if p.drafting {
		b.WriteString(styles.Muted.Render("Generating draft..."))
		b.WriteString("\n\n")
		b.WriteString(styles.Subtle.Render("esc to cancel"))
		return styles.ModalBox.Render(b.String())
	}

	if p.form.isDraft {
		b.WriteString(p.renderFormField("Description", p.form.description.View(), formFieldDescription))
	}
	b.WriteString(p.renderFormField("Trigger", p.form.trigger.View(), formFieldTrigger))
	b.WriteString(p.renderFormField("Category", p.form.category.View(), formFieldCategory))
	b.WriteString(p.renderFormField("Expansion", p.form.expansion.View(), formFieldExpansion))

	hint := "tab: next field · alt+enter: save · esc: cancel"
	if p.form.isDraft {
		hint = "enter on description: generate · " + hint
	}
	b.WriteString(styles.Subtle.Render(hint))

	return styles.ModalBox.Render(b.String())
}

func (p *Plugin) renderFormField(label, view string, field int) string {
	style := styles.Muted
	if p.form.focus == field {
		style = styles.Title
	}
	return style.Render(label) + "\n" + view + "\n\n"
}

func (p *Plugin) renderConfirmDelete() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("Delete Phrase"))
	b.WriteString("\n")
	if p.deleteTarget != nil {
		b.WriteString("Delete ." + p.deleteTarget.Trigger + "?")
		b.WriteString("\n\n")
	}
	b.WriteString(styles.ButtonDangerFocused.Render("Delete (y)"))
	b.WriteString("  ")
	b.WriteString(styles.Button.Render("Cancel (n)"))
	return styles.ModalBox.Render(b.String())
}
