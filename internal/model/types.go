package model

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Category is the role a node plays in a program.
type Category int

const (
	CategoryStatement Category = iota
	CategoryExpression
	CategoryEntry
)

func (c Category) String() string {
	switch c {
	case CategoryStatement:
		return "statement"
	case CategoryExpression:
		return "expression"
	case CategoryEntry:
		return "entry"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// PropertyKind says what a node property holds.
type PropertyKind int

const (
	// KindValue is a raw value edited in place, never linked.
	KindValue PropertyKind = iota
	// KindExpression holds an ExpressionRef.
	KindExpression
	// KindStatement holds a StatementRef.
	KindStatement
	// KindVariable holds a VariableRef.
	KindVariable
)

func (k PropertyKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindExpression:
		return "expression"
	case KindStatement:
		return "statement"
	case KindVariable:
		return "variable"
	default:
		return fmt.Sprintf("PropertyKind(%d)", int(k))
	}
}

// Point is an editor canvas position. The model carries it but never reads it.
type Point struct {
	X float64
	Y float64
}

// DefaultDataTypes are the data types available when an environment does not
// configure its own.
var DefaultDataTypes = []cty.Type{cty.Number, cty.String, cty.Bool}

// IsNullable reports whether null is an acceptable value for t. Primitive
// types are value types and never accept null.
func IsNullable(t cty.Type) bool {
	return !t.IsPrimitiveType()
}

// ZeroValue returns the value a property or variable of type t takes when no
// default is supplied.
func ZeroValue(t cty.Type) cty.Value {
	switch {
	case t.Equals(cty.Number):
		return cty.Zero
	case t.Equals(cty.String):
		return cty.StringVal("")
	case t.Equals(cty.Bool):
		return cty.False
	default:
		return cty.NullVal(t)
	}
}

// IsUnset reports whether v is the zero cty.Value, meaning "not supplied".
func IsUnset(v cty.Value) bool {
	return v.Type() == cty.NilType
}

// CoerceDefault validates v as a default for type t. An unset v yields the
// zero value of t. Values of any other type fail with ErrInvalidDefault;
// nothing is converted.
func CoerceDefault(t cty.Type, v cty.Value) (cty.Value, error) {
	if IsUnset(v) {
		return ZeroValue(t), nil
	}
	if problem := valueProblem(t, v); problem != "" {
		return cty.NilVal, fmt.Errorf("%w: %s", ErrInvalidDefault, problem)
	}
	if v.IsNull() {
		return cty.NullVal(t), nil
	}
	return v, nil
}

// CheckValue fails with ErrTypeMismatch unless v can be stored in a slot of
// type t as is.
func CheckValue(t cty.Type, v cty.Value) error {
	if IsUnset(v) {
		return fmt.Errorf("%w: no %s value", ErrTypeMismatch, TypeName(t))
	}
	if problem := valueProblem(t, v); problem != "" {
		return fmt.Errorf("%w: %s", ErrTypeMismatch, problem)
	}
	return nil
}

// valueProblem describes why v does not fit t, or returns "". Types must be
// equal, null is only accepted by nullable types and numbers must be finite.
func valueProblem(t cty.Type, v cty.Value) string {
	if !v.IsKnown() {
		return fmt.Sprintf("%s value must be known", TypeName(t))
	}
	if v.IsNull() {
		if !IsNullable(t) {
			return fmt.Sprintf("%s does not accept null", TypeName(t))
		}
		return ""
	}
	if !v.Type().Equals(t) {
		return fmt.Sprintf("%s is not assignable to %s", TypeName(v.Type()), TypeName(t))
	}
	if t.Equals(cty.Number) && v.AsBigFloat().IsInf() {
		return "number must be finite"
	}
	return ""
}

// TypeName renders t for messages and catalogs.
func TypeName(t cty.Type) string {
	if t == cty.NilType {
		return "none"
	}
	return t.FriendlyName()
}
