package environment

import (
	"slices"
	"strings"

	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Environment is the immutable result of a Builder.
type Environment struct {
	registry  *registry.Registry
	nodeTypes []string
	allowed   map[string]struct{}
	dataTypes []cty.Type
	entries   []model.EntryDefinition
	locked    []*model.Variable
}

// Default is the environment with every stage left at its default.
func Default(reg *registry.Registry) *Environment {
	env, err := NewBuilder().Build(reg)
	if err != nil {
		// Defaults cannot conflict.
		panic(err)
	}
	return env
}

// Registry returns the registry node types are resolved against.
func (e *Environment) Registry() *registry.Registry {
	return e.registry
}

// NodeTypes lists the allowed node type names in sorted order.
func (e *Environment) NodeTypes() []string {
	return slices.Clone(e.nodeTypes)
}

// AllowsNode reports whether the node type may be used. The entry type is
// always allowed.
func (e *Environment) AllowsNode(name string) bool {
	if name == model.EntryTypeName {
		return true
	}
	_, ok := e.allowed[name]
	return ok
}

// DataTypes lists the allowed data types.
func (e *Environment) DataTypes() []cty.Type {
	return slices.Clone(e.dataTypes)
}

// AllowsDataType reports whether t is an allowed data type.
func (e *Environment) AllowsDataType(t cty.Type) bool {
	for _, dt := range e.dataTypes {
		if dt.Equals(t) {
			return true
		}
	}
	return false
}

// Entries lists the entry definitions in declaration order.
func (e *Environment) Entries() []model.EntryDefinition {
	return slices.Clone(e.entries)
}

// Entry finds an entry definition by case-insensitive id.
func (e *Environment) Entry(id string) (model.EntryDefinition, bool) {
	for _, def := range e.entries {
		if strings.EqualFold(def.ID, id) {
			return def, true
		}
	}
	return model.EntryDefinition{}, false
}

// LockedVariables returns copies of the host-owned variables.
func (e *Environment) LockedVariables() []*model.Variable {
	out := make([]*model.Variable, len(e.locked))
	for i, v := range e.locked {
		out[i] = v.Clone()
	}
	return out
}

// Catalog describes the allowed node types for editors.
func (e *Environment) Catalog() registry.Catalog {
	return e.registry.Catalog(e.nodeTypes, e.dataTypes)
}
