package model

import (
	"fmt"
	"strings"

	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// EntryTypeName is the registered name of the entry node type.
const EntryTypeName = "entry"

// FirstStatementProperty is the entry node slot holding the first statement.
const FirstStatementProperty = "FirstStatement"

// Parameter is one named, typed argument of an entry.
type Parameter struct {
	Name string
	Type cty.Type
}

// EntryDefinition is an environment-declared function signature that a
// program implements with an entry node. Parameters are ordered; appending
// or reordering them keeps existing programs valid, renaming or retyping
// them does not.
type EntryDefinition struct {
	ID         string
	Name       string
	Parameters []Parameter
}

// Parameter finds a parameter by case-insensitive name.
func (d EntryDefinition) Parameter(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Parameter{}, false
}

// ParameterTypes lists parameter types in declaration order.
func (d EntryDefinition) ParameterTypes() []cty.Type {
	types := make([]cty.Type, len(d.Parameters))
	for i, p := range d.Parameters {
		types[i] = p.Type
	}
	return types
}

// Validate checks the definition is well formed.
func (d EntryDefinition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("entry definition has no id")
	}
	seen := make(map[string]struct{}, len(d.Parameters))
	for _, p := range d.Parameters {
		key := strings.ToLower(p.Name)
		if key == "" {
			return fmt.Errorf("entry '%s' has a parameter without a name", d.ID)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: entry '%s' declares parameter '%s' twice", ErrDuplicateName, d.ID, p.Name)
		}
		if p.Type == cty.NilType {
			return fmt.Errorf("entry '%s' parameter '%s' has no type", d.ID, p.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// EntryBinding is the entry-specific state of an entry node.
type EntryBinding struct {
	EntryID string
	// Parameters maps parameter name to variable name.
	Parameters map[string]string
}

// EntryNodeType is the built-in node type every registry carries.
var EntryNodeType = &NodeType{
	Name:     EntryTypeName,
	Label:    "Entry",
	Category: CategoryEntry,
	Properties: func([]cty.Type) []PropertyDef {
		return []PropertyDef{{
			Name:  FirstStatementProperty,
			Label: "Start",
			Kind:  KindStatement,
		}}
	},
}

// NewEntryNode creates the entry node for def.
func NewEntryNode(id nodeid.ID, def EntryDefinition) *Node {
	n, err := NewNodeWithID(id, EntryNodeType)
	if err != nil {
		panic(err)
	}
	n.entry = &EntryBinding{
		EntryID:    def.ID,
		Parameters: make(map[string]string),
	}
	return n
}
