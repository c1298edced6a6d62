// Package schema holds the HCL block structures of an environment file.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// File is the top-level structure of an environment file.
type File struct {
	Nodes           *Nodes            `hcl:"nodes,block"`
	DataTypes       hcl.Expression    `hcl:"data_types,optional"`
	Entries         []*Entry          `hcl:"entry,block"`
	LockedVariables []*LockedVariable `hcl:"locked_variable,block"`
}

// Nodes represents the `nodes` block selecting allowed node types.
type Nodes struct {
	IncludeDefault bool     `hcl:"include_default,optional"`
	Include        []string `hcl:"include,optional"`
	Exclude        []string `hcl:"exclude,optional"`
}

// Entry represents an `entry "<id>"` block declaring a host entry point.
type Entry struct {
	ID         string       `hcl:"id,label"`
	Name       string       `hcl:"name,optional"`
	Parameters []*Parameter `hcl:"parameter,block"`
}

// Parameter represents a `parameter "<name>"` block within an entry.
type Parameter struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

// LockedVariable represents a `locked_variable "<name>"` block.
type LockedVariable struct {
	Name    string         `hcl:"name,label"`
	Type    hcl.Expression `hcl:"type"`
	Default hcl.Expression `hcl:"default,optional"`
}
