package model

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Variable is a named, typed storage slot of a program. Value is only
// meaningful on a running instance.
type Variable struct {
	Name    string
	Type    cty.Type
	Default cty.Value
	Value   cty.Value
	Locked  bool
}

// NewVariable validates name and default and returns a variable holding its
// default value.
func NewVariable(name string, t cty.Type, def cty.Value) (*Variable, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("variable name cannot be empty")
	}
	if t == cty.NilType {
		return nil, fmt.Errorf("variable '%s' has no type", name)
	}
	d, err := CoerceDefault(t, def)
	if err != nil {
		return nil, fmt.Errorf("variable '%s': %w", name, err)
	}
	return &Variable{Name: name, Type: t, Default: d, Value: d}, nil
}

// Reset restores the default value.
func (v *Variable) Reset() {
	v.Value = v.Default
}

// Assign stores val, which must have exactly the declared type.
func (v *Variable) Assign(val cty.Value) error {
	if err := CheckValue(v.Type, val); err != nil {
		return fmt.Errorf("variable '%s': %w", v.Name, err)
	}
	if val.IsNull() {
		val = cty.NullVal(v.Type)
	}
	v.Value = val
	return nil
}

// Clone returns an independent copy. cty values are immutable, so a shallow
// copy suffices.
func (v *Variable) Clone() *Variable {
	c := *v
	return &c
}
