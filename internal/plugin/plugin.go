// Package plugin implements the ordered filter chain applied to each
// inbound frame before fan-out.
package plugin

// LogFunc lets a plugin emit tagged events under its own module name.
type LogFunc func(args ...any)

// Plugin is an ordered filter module. HandleData receives the single
// inbound payload about to be relayed and the client's opaque scratch
// state, and returns a replacement payload sequence. log lets the plugin
// call back into the relay's event logger tagged with the plugin's own
// name ("plugins may call log_fn(args…) to emit tagged events
// under their own name").
type Plugin interface {
	// Name identifies the plugin for logging and registry lookup.
	Name() string
	// HandleData filters payload, given state (the client's scratch bag)
	// and log (the plugin's own tagged logger). It returns the replacement
	// payload sequence.
	HandleData(log LogFunc, payload []byte, state any) [][]byte
}

// Registry maps plugin module names to their registered Plugin, populated
// at program init. No dynamic
// code loading is performed; names are resolved against plugins that have
// already registered themselves.
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p to the registry under p.Name(). Registering the same
// name twice replaces the previous registration.
func (r *Registry) Register(p Plugin) {
	r.plugins[p.Name()] = p
}

// Lookup resolves name to its registered Plugin.
func (r *Registry) Lookup(name string) (Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}

// Resolve looks up each name in order, returning an error naming the first
// one not found. Used by the CLI to build a Chain from the positional
// plugin module arguments.
func (r *Registry) Resolve(names []string) ([]Plugin, error) {
	plugins := make([]Plugin, 0, len(names))
	for _, name := range names {
		p, ok := r.Lookup(name)
		if !ok {
			return nil, &UnknownPluginError{Name: name}
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// UnknownPluginError reports a plugin module name with no registered
// implementation.
type UnknownPluginError struct {
	Name string
}

func (e *UnknownPluginError) Error() string {
	return "plugin: unknown module " + e.Name
}
