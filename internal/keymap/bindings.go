package keymap

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: "quit", Context: "global"},
		{Key: "`", Command: "next-plugin", Context: "global"},
		{Key: "~", Command: "prev-plugin", Context: "global"},
		{Key: "ctrl+h", Command: "toggle-footer", Context: "global"},

		// Note list context (left pane)
		{Key: "j", Command: "cursor-down", Context: "editor-list"},
		{Key: "down", Command: "cursor-down", Context: "editor-list"},
		{Key: "k", Command: "cursor-up", Context: "editor-list"},
		{Key: "up", Command: "cursor-up", Context: "editor-list"},
		{Key: "enter", Command: "open-note", Context: "editor-list"},
		{Key: "n", Command: "new-note", Context: "editor-list"},
		{Key: "d", Command: "delete-note", Context: "editor-list"},
		{Key: "w", Command: "toggle-wrap", Context: "editor-list"},
		{Key: "y", Command: "yank-note", Context: "editor-list"},
		{Key: "<", Command: "shrink-list", Context: "editor-list"},
		{Key: ">", Command: "grow-list", Context: "editor-list"},
		{Key: "tab", Command: "focus-editor", Context: "editor-list"},

		// Editor text context (textarea focused)
		{Key: "ctrl+s", Command: "save-note", Context: "editor"},
		{Key: "ctrl+j", Command: "next-placeholder", Context: "editor"},
		{Key: "alt+c", Command: "copy-note", Context: "editor"},
		{Key: "ctrl+g", Command: "toggle-preview", Context: "editor"},
		{Key: "esc", Command: "focus-list", Context: "editor"},

		// Suggestion popover context (trigger active with candidates)
		{Key: "down", Command: "suggest-next", Context: "editor-suggest"},
		{Key: "ctrl+n", Command: "suggest-next", Context: "editor-suggest"},
		{Key: "up", Command: "suggest-prev", Context: "editor-suggest"},
		{Key: "ctrl+p", Command: "suggest-prev", Context: "editor-suggest"},
		{Key: "enter", Command: "suggest-confirm", Context: "editor-suggest"},
		{Key: "tab", Command: "suggest-confirm", Context: "editor-suggest"},
		{Key: "esc", Command: "suggest-cancel", Context: "editor-suggest"},

		// Phrase manager context
		{Key: "j", Command: "cursor-down", Context: "phrases"},
		{Key: "down", Command: "cursor-down", Context: "phrases"},
		{Key: "k", Command: "cursor-up", Context: "phrases"},
		{Key: "up", Command: "cursor-up", Context: "phrases"},
		{Key: "a", Command: "add-phrase", Context: "phrases"},
		{Key: "i", Command: "generate-draft", Context: "phrases"},
		{Key: "d", Command: "delete-phrase", Context: "phrases"},
		{Key: "e", Command: "export-phrases", Context: "phrases"},
		{Key: "r", Command: "reload-phrases", Context: "phrases"},
		{Key: "/", Command: "filter", Context: "phrases"},

		// Phrase filter context (incremental trigger filter)
		{Key: "enter", Command: "apply-filter", Context: "phrases-filter"},
		{Key: "esc", Command: "clear-filter", Context: "phrases-filter"},

		// Phrase add/draft form context
		{Key: "esc", Command: "cancel", Context: "phrases-form"},
		{Key: "tab", Command: "next-field", Context: "phrases-form"},
		{Key: "shift+tab", Command: "prev-field", Context: "phrases-form"},
		{Key: "alt+enter", Command: "submit", Context: "phrases-form"},

		// Phrase delete confirmation context
		{Key: "y", Command: "confirm", Context: "phrases-confirm-delete"},
		{Key: "enter", Command: "confirm", Context: "phrases-confirm-delete"},
		{Key: "n", Command: "cancel", Context: "phrases-confirm-delete"},
		{Key: "esc", Command: "cancel", Context: "phrases-confirm-delete"},
	}
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
