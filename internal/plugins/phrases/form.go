package phrases

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkessler/chartnote/internal/msg"
	"github.com/mkessler/chartnote/internal/plugin"
)

// Form field indices, in tab order. The description field only exists on
// the AI draft form.
const (
	formFieldDescription = iota
	formFieldTrigger
	formFieldCategory
	formFieldExpansion
)

type formState struct {
	isDraft     bool
	focus       int
	description textinput.Model
	trigger     textinput.Model
	category    textinput.Model
	expansion   textarea.Model
}

func (p *Plugin) initForm() {
	description := textinput.New()
	description.Placeholder = "describe the phrase, e.g. \"normal cardiac exam\""
	description.CharLimit = 200

	trigger := textinput.New()
	trigger.Placeholder = "trigger (typed after the dot)"
	trigger.CharLimit = 40

	category := textinput.New()
	category.Placeholder = "category (optional)"
	category.CharLimit = 40

	expansion := textarea.New()
	expansion.Placeholder = "expansion text, *** marks fill-in slots"
	expansion.CharLimit = 0
	expansion.ShowLineNumbers = false
	expansion.Prompt = ""

	p.form = formState{
		description: description,
		trigger:     trigger,
		category:    category,
		expansion:   expansion,
	}
}

// openForm resets and shows the add form. Draft forms start on the
// description field and offer AI generation.
func (p *Plugin) openForm(isDraft bool) {
	p.initForm()
	p.form.isDraft = isDraft
	p.resizeForm()
	if isDraft {
		p.focusFormField(formFieldDescription)
	} else {
		p.focusFormField(formFieldTrigger)
	}
	p.mode = ModeForm
}

func (p *Plugin) resizeForm() {
	w := p.width/2 - 6
	if w < 30 {
		w = 30
	}
	p.form.description.Width = w
	p.form.trigger.Width = w
	p.form.category.Width = w
	p.form.expansion.SetWidth(w)
	p.form.expansion.SetHeight(6)
}

func (p *Plugin) focusFormField(field int) {
	if !p.form.isDraft && field == formFieldDescription {
		field = formFieldTrigger
	}
	p.form.focus = field
	p.form.description.Blur()
	p.form.trigger.Blur()
	p.form.category.Blur()
	p.form.expansion.Blur()
	switch field {
	case formFieldDescription:
		p.form.description.Focus()
	case formFieldTrigger:
		p.form.trigger.Focus()
	case formFieldCategory:
		p.form.category.Focus()
	case formFieldExpansion:
		p.form.expansion.Focus()
	}
}

func (p *Plugin) cycleFormField(delta int) {
	first := formFieldTrigger
	if p.form.isDraft {
		first = formFieldDescription
	}
	span := formFieldExpansion - first + 1
	next := (p.form.focus - first + delta + span) % span
	p.focusFormField(first + next)
}

func (p *Plugin) handleFormKey(m tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	if p.drafting {
		// Only allow bailing out while a draft request is in flight.
		if m.String() == "esc" {
			p.drafting = false
			p.mode = ModeList
		}
		return p, nil
	}

	switch m.String() {
	case "esc":
		p.mode = ModeList
		return p, nil
	case "tab":
		p.cycleFormField(1)
		return p, nil
	case "shift+tab":
		p.cycleFormField(-1)
		return p, nil
	case "alt+enter":
		return p, p.submitForm()
	case "enter":
		if p.form.isDraft && p.form.focus == formFieldDescription {
			return p, p.generateDraft()
		}
		if p.form.focus != formFieldExpansion {
			p.cycleFormField(1)
			return p, nil
		}
		// Fall through so enter inserts a newline in the expansion.
	}

	return p, p.updateFormComponents(m)
}

// updateFormComponents forwards a message to the focused form component.
func (p *Plugin) updateFormComponents(teaMsg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.form.focus {
	case formFieldDescription:
		p.form.description, cmd = p.form.description.Update(teaMsg)
	case formFieldTrigger:
		p.form.trigger, cmd = p.form.trigger.Update(teaMsg)
	case formFieldCategory:
		p.form.category, cmd = p.form.category.Update(teaMsg)
	case formFieldExpansion:
		p.form.expansion, cmd = p.form.expansion.Update(teaMsg)
	}
	return cmd
}

// submitForm validates and saves the phrase.
func (p *Plugin) submitForm() tea.Cmd {
	trigger := strings.TrimSpace(p.form.trigger.Value())
	expansion := p.form.expansion.Value()
	category := strings.TrimSpace(p.form.category.Value())

	if trigger == "" {
		return msg.ShowErrorToast("Trigger is required", 2*time.Second)
	}
	if strings.TrimSpace(expansion) == "" {
		return msg.ShowErrorToast("Expansion is required", 2*time.Second)
	}

	added, err := p.store.Add(trigger, expansion, category)
	if err != nil {
		return msg.ShowErrorToast(err.Error(), 3*time.Second)
	}

	p.mode = ModeList
	p.ctx.Logger.Debug("phrases: added", "id", added.ID, "trigger", added.Trigger)
	return tea.Batch(
		msg.ShowToast("Added ."+added.Trigger, 2*time.Second),
		func() tea.Msg { return msg.PhrasesChangedMsg{} },
	)
}
