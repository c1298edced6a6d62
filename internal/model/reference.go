package model

import (
	"fmt"
	"strings"

	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

// ExpressionRef is the content of an expression slot. It is empty, points at
// an expression node, or holds a literal of the slot type.
type ExpressionRef struct {
	Type cty.Type

	literal bool
	target  nodeid.ID
	value   cty.Value
}

// EmptyExpression returns an unset reference of type t.
func EmptyExpression(t cty.Type) ExpressionRef {
	return ExpressionRef{Type: t}
}

// ExpressionTo returns a reference of type t pointing at the node id.
func ExpressionTo(t cty.Type, id nodeid.ID) ExpressionRef {
	return ExpressionRef{Type: t, target: id}
}

// LiteralExpression returns a literal reference of type t. The value must
// have exactly type t; null is only accepted for nullable types.
func LiteralExpression(t cty.Type, v cty.Value) (ExpressionRef, error) {
	if err := CheckValue(t, v); err != nil {
		return ExpressionRef{}, fmt.Errorf("literal: %w", err)
	}
	if v.IsNull() {
		v = cty.NullVal(t)
	}
	return ExpressionRef{Type: t, literal: true, value: v}, nil
}

// HasValue reports whether the reference points at a node or holds a literal.
func (r ExpressionRef) HasValue() bool {
	return r.literal || !r.target.IsNil()
}

// IsLiteral reports whether the reference holds a literal.
func (r ExpressionRef) IsLiteral() bool {
	return r.literal
}

// Target is the referenced node id, or nodeid.Nil.
func (r ExpressionRef) Target() nodeid.ID {
	return r.target
}

// Literal is the literal value, or the zero cty.Value.
func (r ExpressionRef) Literal() cty.Value {
	return r.value
}

// Equal compares by (literal flag, target, literal value).
func (r ExpressionRef) Equal(o ExpressionRef) bool {
	if r.literal != o.literal || !r.target.Equal(o.target) {
		return false
	}
	if !r.literal {
		return true
	}
	return r.value.RawEquals(o.value)
}

// ResolveNode returns the referenced node, or nil when the reference is
// empty, a literal or dangling.
func (r ExpressionRef) ResolveNode(res Resolver) *Node {
	if r.literal || r.target.IsNil() {
		return nil
	}
	n, ok := res.Node(r.target)
	if !ok {
		return nil
	}
	return n
}

// ResolveRequiredNode is ResolveNode failing with ErrBrokenLink.
func (r ExpressionRef) ResolveRequiredNode(res Resolver) (*Node, error) {
	n := r.ResolveNode(res)
	if n == nil {
		return nil, r.broken()
	}
	return n, nil
}

// ResolveExpression lowers the reference. It returns a nil fragment when
// the reference is empty or its target no longer exists.
func (r ExpressionRef) ResolveExpression(ctx LowerContext) (runtime.Expr, error) {
	if r.literal {
		return runtime.Const(r.value), nil
	}
	n := r.ResolveNode(ctx)
	if n == nil {
		return nil, nil
	}
	return ctx.LowerExpression(n)
}

// ResolveRequiredExpression is ResolveExpression failing with ErrBrokenLink
// when nothing resolves.
func (r ExpressionRef) ResolveRequiredExpression(ctx LowerContext) (runtime.Expr, error) {
	e, err := r.ResolveExpression(ctx)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, r.broken()
	}
	return e, nil
}

// ResolveExpressionOr lowers the reference, substituting fallback when it
// is empty.
func (r ExpressionRef) ResolveExpressionOr(ctx LowerContext, fallback cty.Value) (runtime.Expr, error) {
	e, err := r.ResolveExpression(ctx)
	if err != nil || e != nil {
		return e, err
	}
	return runtime.Const(fallback), nil
}

func (r ExpressionRef) broken() error {
	if r.target.IsNil() {
		return fmt.Errorf("%w: required %s expression is not set", ErrBrokenLink, TypeName(r.Type))
	}
	return fmt.Errorf("%w: expression node %s does not exist", ErrBrokenLink, r.target)
}

// StatementRef is the content of a statement slot: empty or a statement node.
type StatementRef struct {
	target nodeid.ID
}

// StatementTo returns a reference to the node id.
func StatementTo(id nodeid.ID) StatementRef {
	return StatementRef{target: id}
}

// HasValue reports whether the reference points at a node.
func (r StatementRef) HasValue() bool {
	return !r.target.IsNil()
}

// Target is the referenced node id, or nodeid.Nil.
func (r StatementRef) Target() nodeid.ID {
	return r.target
}

// Equal compares targets.
func (r StatementRef) Equal(o StatementRef) bool {
	return r.target.Equal(o.target)
}

// ResolveNode returns the referenced node, or nil when empty or dangling.
func (r StatementRef) ResolveNode(res Resolver) *Node {
	if r.target.IsNil() {
		return nil
	}
	n, ok := res.Node(r.target)
	if !ok {
		return nil
	}
	return n
}

// ResolveRequiredNode is ResolveNode failing with ErrBrokenLink.
func (r StatementRef) ResolveRequiredNode(res Resolver) (*Node, error) {
	n := r.ResolveNode(res)
	if n == nil {
		if r.target.IsNil() {
			return nil, fmt.Errorf("%w: required statement is not set", ErrBrokenLink)
		}
		return nil, fmt.Errorf("%w: statement node %s does not exist", ErrBrokenLink, r.target)
	}
	return n, nil
}

// VariableRef is the content of a variable slot: empty or a variable name.
type VariableRef struct {
	Type cty.Type
	Name string
}

// HasValue reports whether a variable is named.
func (r VariableRef) HasValue() bool {
	return r.Name != ""
}

// Equal compares names case-insensitively.
func (r VariableRef) Equal(o VariableRef) bool {
	return strings.EqualFold(r.Name, o.Name)
}

// ResolveVariable looks up the named variable and checks its type.
func (r VariableRef) ResolveVariable(res Resolver) (*Variable, error) {
	if !r.HasValue() {
		return nil, nil
	}
	v, ok := res.Variable(r.Name)
	if !ok {
		return nil, fmt.Errorf("%w: variable '%s' does not exist", ErrBrokenLink, r.Name)
	}
	if !v.Type.Equals(r.Type) {
		return nil, fmt.Errorf("%w: variable '%s' is %s, slot expects %s", ErrTypeMismatch, v.Name, TypeName(v.Type), TypeName(r.Type))
	}
	return v, nil
}

// ResolveGetter returns a fragment reading the variable, or nil when the
// reference is empty.
func (r VariableRef) ResolveGetter(res Resolver) (runtime.Expr, error) {
	v, err := r.ResolveVariable(res)
	if err != nil || v == nil {
		return nil, err
	}
	name := v.Name
	return func(f runtime.Frame) (cty.Value, error) {
		return f.Variable(name)
	}, nil
}

// ResolveRequiredGetter is ResolveGetter failing with ErrBrokenLink.
func (r VariableRef) ResolveRequiredGetter(res Resolver) (runtime.Expr, error) {
	if !r.HasValue() {
		return nil, fmt.Errorf("%w: required %s variable is not set", ErrBrokenLink, TypeName(r.Type))
	}
	return r.ResolveGetter(res)
}

// ResolveSetter returns a fragment assigning the variable, or nil when the
// reference is empty.
func (r VariableRef) ResolveSetter(res Resolver) (runtime.Setter, error) {
	v, err := r.ResolveVariable(res)
	if err != nil || v == nil {
		return nil, err
	}
	name := v.Name
	return func(f runtime.Frame, val cty.Value) error {
		return f.SetVariable(name, val)
	}, nil
}

// ResolveRequiredSetter is ResolveSetter failing with ErrBrokenLink.
func (r VariableRef) ResolveRequiredSetter(res Resolver) (runtime.Setter, error) {
	if !r.HasValue() {
		return nil, fmt.Errorf("%w: required %s variable is not set", ErrBrokenLink, TypeName(r.Type))
	}
	return r.ResolveSetter(res)
}
