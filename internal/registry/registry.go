package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/visualgrid/internal/model"
)

// Module is the interface that all node packs must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered node types for a single application
// instance.
type Registry struct {
	nodeTypes map[string]*model.NodeType
}

// New creates a Registry that already carries the built-in entry node type.
func New() *Registry {
	r := &Registry{nodeTypes: make(map[string]*model.NodeType)}
	r.RegisterNodeType(model.EntryNodeType)
	return r
}

// RegisterNodeType adds a node type. Registering a name twice is a
// programming error and panics.
func (r *Registry) RegisterNodeType(t *model.NodeType) {
	if t == nil {
		panic("cannot register a nil node type")
	}
	if _, exists := r.nodeTypes[t.Name]; exists {
		panic(fmt.Sprintf("node type with name '%s' already registered", t.Name))
	}
	slog.Debug("Registering node type.", "name", t.Name, "category", t.Category.String())
	r.nodeTypes[t.Name] = t
}

// Lookup finds a node type by name.
func (r *Registry) Lookup(name string) (*model.NodeType, bool) {
	t, ok := r.nodeTypes[name]
	return t, ok
}

// MustLookup is Lookup failing with model.ErrUnknownNodeType.
func (r *Registry) MustLookup(name string) (*model.NodeType, error) {
	t, ok := r.nodeTypes[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", model.ErrUnknownNodeType, name)
	}
	return t, nil
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.nodeTypes))
	for name := range r.nodeTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len is the number of registered node types, the entry type included.
func (r *Registry) Len() int {
	return len(r.nodeTypes)
}
