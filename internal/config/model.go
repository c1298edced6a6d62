package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of an environment.
// Nil or empty sections mean "use the default".
type Model struct {
	Nodes           *NodeSelection
	DataTypes       []cty.Type
	Entries         []*EntryDefinition
	LockedVariables []*VariableDefinition
}

// NodeSelection lists which registered node types an environment allows.
// Excludes are applied after includes.
type NodeSelection struct {
	IncludeDefault bool
	Include        []string
	Exclude        []string
}

// EntryDefinition is the format-agnostic representation of an `entry` block.
type EntryDefinition struct {
	ID         string
	Name       string
	Parameters []*ParameterDefinition
}

// ParameterDefinition is one typed entry parameter.
type ParameterDefinition struct {
	Name string
	Type cty.Type
}

// VariableDefinition is the format-agnostic representation of a
// `locked_variable` block.
type VariableDefinition struct {
	Name    string
	Type    cty.Type
	Default *cty.Value
}

// Merge folds other into m. Sections set in other replace or extend those
// in m: node selections and data types are replaced, entries and locked
// variables are appended.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	if other.Nodes != nil {
		m.Nodes = other.Nodes
	}
	if len(other.DataTypes) > 0 {
		m.DataTypes = other.DataTypes
	}
	m.Entries = append(m.Entries, other.Entries...)
	m.LockedVariables = append(m.LockedVariables, other.LockedVariables...)
}
