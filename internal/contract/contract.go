// Package contract describes the shape a compiled program is bound to.
//
// Go has no way to synthesize a type at run time, so a contract is a plain
// description: the methods that must map to entries, the properties that
// must map to variables, and the constructors that wrap a generic Program
// into the caller's own type C. A typical C is an interface embedding
// Program whose implementation forwards each method with Call and each
// property with Get and Set.
package contract

import (
	"fmt"
	"strings"

	"github.com/vk/visualgrid/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Program is implemented by every compiled program instance. Everything a
// program holds is reachable through it, whether or not the contract names it.
type Program interface {
	// ResetVariables restores every variable to its default.
	ResetVariables()
	GetVariable(name string) (cty.Value, error)
	SetVariable(name string, v cty.Value) error
	// Invoke runs the entry with the given id, case-insensitively.
	Invoke(entry string, args ...cty.Value) error
}

// Method maps to the entry with the same name and exactly these parameter
// types.
type Method struct {
	Name   string
	Params []cty.Type
}

// Property maps to the variable with the same name and type.
type Property struct {
	Name string
	Type cty.Type
}

// Constructor builds a C around a fresh program instance. It is chosen when
// the arguments given to CreateProgram have exactly the Params types.
type Constructor[C any] struct {
	Params []cty.Type
	New    func(p Program, args []cty.Value) (C, error)
}

// Contract binds a program to the type C.
type Contract[C any] struct {
	Methods      []Method
	Properties   []Property
	Constructors []Constructor[C]
}

// Generic is the contract with no members: instances are used through the
// Program interface only.
func Generic() Contract[Program] {
	return Contract[Program]{}
}

// Validate checks the contract is well formed on its own.
func (c Contract[C]) Validate() error {
	seen := make(map[string]struct{})
	for _, m := range c.Methods {
		key := strings.ToLower(m.Name)
		if key == "" {
			return fmt.Errorf("contract method has no name")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: contract declares method '%s' twice", model.ErrDuplicateName, m.Name)
		}
		seen[key] = struct{}{}
	}
	seen = make(map[string]struct{})
	for _, p := range c.Properties {
		key := strings.ToLower(p.Name)
		if key == "" {
			return fmt.Errorf("contract property has no name")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: contract declares property '%s' twice", model.ErrDuplicateName, p.Name)
		}
		if p.Type == cty.NilType {
			return fmt.Errorf("contract property '%s' has no type", p.Name)
		}
		seen[key] = struct{}{}
	}
	for i, ctor := range c.Constructors {
		if ctor.New == nil {
			return fmt.Errorf("contract constructor %d has no New function", i)
		}
	}
	return nil
}

// ToValue converts a Go value to a cty value. cty values pass through.
func ToValue(x any) (cty.Value, error) {
	if v, ok := x.(cty.Value); ok {
		return v, nil
	}
	t, err := gocty.ImpliedType(x)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %T has no data type: %v", model.ErrTypeMismatch, x, err)
	}
	v, err := gocty.ToCtyValue(x, t)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: %v", model.ErrTypeMismatch, err)
	}
	return v, nil
}

// ToValues applies ToValue to each argument.
func ToValues(xs ...any) ([]cty.Value, error) {
	vals := make([]cty.Value, len(xs))
	for i, x := range xs {
		v, err := ToValue(x)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// Get reads a variable into a Go value of type T.
func Get[T any](p Program, name string) (T, error) {
	var out T
	v, err := p.GetVariable(name)
	if err != nil {
		return out, err
	}
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return out, fmt.Errorf("%w: variable '%s': %v", model.ErrTypeMismatch, name, err)
	}
	return out, nil
}

// Set assigns a Go value to a variable.
func Set(p Program, name string, value any) error {
	v, err := ToValue(value)
	if err != nil {
		return fmt.Errorf("variable '%s': %w", name, err)
	}
	return p.SetVariable(name, v)
}

// Call invokes an entry with Go arguments.
func Call(p Program, entry string, args ...any) error {
	vals, err := ToValues(args...)
	if err != nil {
		return fmt.Errorf("entry '%s': %w", entry, err)
	}
	return p.Invoke(entry, vals...)
}
