package host

import (
	"slices"
	"sync"
)

// GlobalName is the name of the global object inside its own namespace.
const GlobalName = "globalThis"

// Namespace is the root of a host graph. Global bindings are properties of
// the global object; lexical bindings are reachable by name only.
type Namespace struct {
	global *Object

	mu      sync.RWMutex
	lexical map[string]any
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{
		global:  NewObject(GlobalName, nil),
		lexical: make(map[string]any),
	}
}

// Global returns the global object.
func (n *Namespace) Global() *Object {
	return n.global
}

// Bind defines a configurable global binding.
func (n *Namespace) Bind(name string, value any) error {
	return n.global.DefineProperty(name, Descriptor{Value: value, Configurable: true})
}

// Declare adds a lexical binding that is not a property of the global
// object.
func (n *Namespace) Declare(name string, value any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.lexical[name] = value
}

// Lookup resolves a name: global properties first, then lexical bindings.
// A global bound to nil does not hide a lexical binding of the same name.
func (n *Namespace) Lookup(name string) (any, bool) {
	if name == GlobalName {
		return n.global, true
	}

	if _, _, ok := n.global.Lookup(name); ok {
		v, err := n.global.Get(name)
		if err == nil && v != nil {
			return v, true
		}
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	v, ok := n.lexical[name]

	return v, ok
}

// Names returns every resolvable root name, sorted.
func (n *Namespace) Names() []string {
	names := n.global.Keys()

	n.mu.RLock()
	for name := range n.lexical {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	n.mu.RUnlock()

	slices.Sort(names)

	return names
}
