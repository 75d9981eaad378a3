// Package keymap resolves key presses to commands, with per-context
// bindings falling back to global ones.
package keymap

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string
	Command string
	Context string // "global" applies in every context
}

// Registry holds all registered bindings plus user overrides from config.
type Registry struct {
	byContext map[string][]Binding
	overrides map[string]string // "context.command" -> key
}

// NewRegistry creates an empty binding registry.
func NewRegistry() *Registry {
	return &Registry{
		byContext: make(map[string][]Binding),
		overrides: make(map[string]string),
	}
}

// RegisterBinding adds a binding to the registry.
func (r *Registry) RegisterBinding(b Binding) {
	if b.Context == "" {
		b.Context = "global"
	}
	r.byContext[b.Context] = append(r.byContext[b.Context], b)
}

// SetUserOverride replaces the key for a command. The name is
// "context.command", e.g. "editor.save-note".
func (r *Registry) SetUserOverride(name, key string) {
	r.overrides[name] = key
}

// ApplyOverrides installs all overrides from a config map.
func (r *Registry) ApplyOverrides(overrides map[string]string) {
	for name, key := range overrides {
		r.SetUserOverride(name, key)
	}
}

// Lookup resolves a key press in the given context. Context-specific
// bindings win over global ones.
func (r *Registry) Lookup(key, context string) (string, bool) {
	if cmd, ok := r.lookupIn(key, context); ok {
		return cmd, true
	}
	if context != "global" {
		return r.lookupIn(key, "global")
	}
	return "", false
}

func (r *Registry) lookupIn(key, context string) (string, bool) {
	for _, b := range r.byContext[context] {
		if r.effectiveKey(b) == key {
			return b.Command, true
		}
	}
	return "", false
}

// KeyFor returns the key bound to a command in a context, for footer hints.
// Returns "" if the command has no binding.
func (r *Registry) KeyFor(command, context string) string {
	for _, b := range r.byContext[context] {
		if b.Command == command {
			return r.effectiveKey(b)
		}
	}
	for _, b := range r.byContext["global"] {
		if b.Command == command {
			return r.effectiveKey(b)
		}
	}
	return ""
}

// BindingsFor returns the bindings active in a context, context-specific
// first, then global.
func (r *Registry) BindingsFor(context string) []Binding {
	out := make([]Binding, 0, len(r.byContext[context])+len(r.byContext["global"]))
	for _, b := range r.byContext[context] {
		b.Key = r.effectiveKey(b)
		out = append(out, b)
	}
	if context != "global" {
		for _, b := range r.byContext["global"] {
			b.Key = r.effectiveKey(b)
			out = append(out, b)
		}
	}
	return out
}

func (r *Registry) effectiveKey(b Binding) string {
	if key, ok := r.overrides[b.Context+"."+b.Command]; ok {
		return key
	}
	return b.Key
}
