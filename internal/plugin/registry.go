package plugin

// Registry holds the registered plugins in display order.
type Registry struct {
	plugins []Plugin
	byID    map[string]Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Plugin)}
}

// Register adds a plugin. Registration order is tab order.
func (r *Registry) Register(p Plugin) {
	if _, exists := r.byID[p.ID()]; exists {
		return
	}
	r.plugins = append(r.plugins, p)
	r.byID[p.ID()] = p
}

// Get returns the plugin with the given ID, or nil.
func (r *Registry) Get(id string) Plugin {
	return r.byID[id]
}

// Plugins returns all plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	return r.plugins
}

// Index returns the position of a plugin ID in tab order, or -1.
func (r *Registry) Index(id string) int {
	for i, p := range r.plugins {
		if p.ID() == id {
			return i
		}
	}
	return -1
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	return len(r.plugins)
}
