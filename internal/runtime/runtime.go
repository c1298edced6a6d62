package runtime

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Frame is the per-instance state a fragment executes against.
type Frame interface {
	// Variable returns the current value of the named variable.
	Variable(name string) (cty.Value, error)
	// SetVariable assigns a new value to the named variable.
	SetVariable(name string, v cty.Value) error
	// Print writes one line of program output.
	Print(line string) error
}

// Expr is a lowered expression node.
type Expr func(f Frame) (cty.Value, error)

// Stmt is a lowered statement node.
type Stmt func(f Frame) error

// Setter assigns a value produced elsewhere, typically to a variable.
type Setter func(f Frame, v cty.Value) error

// Const returns an expression that always yields v.
func Const(v cty.Value) Expr {
	return func(Frame) (cty.Value, error) {
		return v, nil
	}
}

// Noop is the empty statement.
func Noop(Frame) error {
	return nil
}

// Block runs stmts in order and stops at the first error.
func Block(stmts ...Stmt) Stmt {
	switch len(stmts) {
	case 0:
		return Noop
	case 1:
		return stmts[0]
	}
	return func(f Frame) error {
		for _, s := range stmts {
			if err := s(f); err != nil {
				return err
			}
		}
		return nil
	}
}

// Bool evaluates e and unwraps the result as a Go bool.
func Bool(f Frame, e Expr) (bool, error) {
	v, err := e(f)
	if err != nil {
		return false, err
	}
	if v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Bool) {
		return false, fmt.Errorf("expected a known bool, got %s", describe(v))
	}
	return v.True(), nil
}

// Number evaluates e and checks the result is a known number.
func Number(f Frame, e Expr) (cty.Value, error) {
	v, err := e(f)
	if err != nil {
		return cty.NilVal, err
	}
	if v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.Number) {
		return cty.NilVal, fmt.Errorf("expected a known number, got %s", describe(v))
	}
	return v, nil
}

// String evaluates e and unwraps the result as a Go string.
func String(f Frame, e Expr) (string, error) {
	v, err := e(f)
	if err != nil {
		return "", err
	}
	if v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.String) {
		return "", fmt.Errorf("expected a known string, got %s", describe(v))
	}
	return v.AsString(), nil
}

func describe(v cty.Value) string {
	switch {
	case v.Type() == cty.NilType:
		return "nothing"
	case v.IsNull():
		return "null " + v.Type().FriendlyName()
	case !v.IsKnown():
		return "unknown " + v.Type().FriendlyName()
	default:
		return v.Type().FriendlyName()
	}
}
