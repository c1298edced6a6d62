package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Node is one instance of a NodeType placed in a program.
type Node struct {
	ID       nodeid.ID
	Position Point

	typ      *NodeType
	typeArgs []cty.Type
	defs     []PropertyDef

	values map[string]cty.Value
	exprs  map[string]ExpressionRef
	stmts  map[string]StatementRef
	vars   map[string]VariableRef

	entry *EntryBinding
}

// NewNode creates a node of type t with a fresh identity.
func NewNode(t *NodeType, typeArgs ...cty.Type) (*Node, error) {
	return NewNodeWithID(nodeid.New(), t, typeArgs...)
}

// NewNodeWithID creates a node with a caller-chosen identity, as needed when
// reconstructing a stored program.
func NewNodeWithID(id nodeid.ID, t *NodeType, typeArgs ...cty.Type) (*Node, error) {
	if id.IsNil() {
		return nil, fmt.Errorf("node of type '%s' needs a non-nil id", t.Name)
	}
	if len(typeArgs) != t.TypeParams {
		return nil, fmt.Errorf("node type '%s' takes %d type arguments, got %d", t.Name, t.TypeParams, len(typeArgs))
	}
	for i, a := range typeArgs {
		if a == cty.NilType {
			return nil, fmt.Errorf("node type '%s': type argument %d is not set", t.Name, i)
		}
	}

	n := &Node{
		ID:       id,
		typ:      t,
		typeArgs: slices.Clone(typeArgs),
		defs:     t.PropertyDefs(typeArgs),
		values:   make(map[string]cty.Value),
		exprs:    make(map[string]ExpressionRef),
		stmts:    make(map[string]StatementRef),
		vars:     make(map[string]VariableRef),
	}

	for _, def := range n.defs {
		switch def.Kind {
		case KindValue:
			v, err := CoerceDefault(def.Type, def.Default)
			if err != nil {
				return nil, fmt.Errorf("node type '%s' property '%s': %w", t.Name, def.Name, err)
			}
			n.values[def.Name] = v
		case KindExpression:
			ref := EmptyExpression(def.Type)
			if !IsUnset(def.Default) {
				lit, err := LiteralExpression(def.Type, def.Default)
				if err != nil {
					return nil, fmt.Errorf("node type '%s' property '%s': %w", t.Name, def.Name, err)
				}
				ref = lit
			}
			n.exprs[def.Name] = ref
		case KindStatement:
			n.stmts[def.Name] = StatementRef{}
		case KindVariable:
			n.vars[def.Name] = VariableRef{Type: def.Type}
		}
	}
	return n, nil
}

// Type returns the node type.
func (n *Node) Type() *NodeType {
	return n.typ
}

// TypeArgs returns a copy of the generic type arguments.
func (n *Node) TypeArgs() []cty.Type {
	return slices.Clone(n.typeArgs)
}

// TypeArg returns the i-th type argument.
func (n *Node) TypeArg(i int) cty.Type {
	return n.typeArgs[i]
}

// Category returns the node category.
func (n *Node) Category() Category {
	return n.typ.Category
}

// ResultType is the produced type of an expression node and cty.NilType for
// anything else.
func (n *Node) ResultType() cty.Type {
	if n.typ.Category != CategoryExpression || n.typ.Result == nil {
		return cty.NilType
	}
	return n.typ.Result(n.typeArgs)
}

// Properties returns the ordered property descriptors.
func (n *Node) Properties() []PropertyDef {
	return slices.Clone(n.defs)
}

// Property returns the descriptor of the named property.
func (n *Node) Property(name string) (PropertyDef, bool) {
	for _, d := range n.defs {
		if d.Name == name {
			return d, true
		}
	}
	return PropertyDef{}, false
}

// Entry returns the entry binding of an entry node, or nil.
func (n *Node) Entry() *EntryBinding {
	return n.entry
}

// String renders the node for log lines.
func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.typ.Name, n.ID.Short())
}

// Value returns a KindValue property.
func (n *Node) Value(property string) cty.Value {
	return n.values[property]
}

// Expression returns a KindExpression property.
func (n *Node) Expression(property string) ExpressionRef {
	return n.exprs[property]
}

// Statement returns a KindStatement property.
func (n *Node) Statement(property string) StatementRef {
	return n.stmts[property]
}

// VariableRef returns a KindVariable property.
func (n *Node) VariableRef(property string) VariableRef {
	return n.vars[property]
}

func (n *Node) propertyOfKind(property string, kind PropertyKind) (PropertyDef, error) {
	def, ok := n.Property(property)
	if !ok {
		return PropertyDef{}, fmt.Errorf("%w: %s has no property '%s'", ErrUnknownProperty, n, property)
	}
	if def.Kind != kind {
		return PropertyDef{}, fmt.Errorf("%w: property '%s' of %s is a %s property, not %s", ErrKindMismatch, property, n, def.Kind, kind)
	}
	return def, nil
}

// SetValue assigns a KindValue property. v must have exactly its type.
func (n *Node) SetValue(property string, v cty.Value) error {
	def, err := n.propertyOfKind(property, KindValue)
	if err != nil {
		return err
	}
	if err := CheckValue(def.Type, v); err != nil {
		return fmt.Errorf("property '%s' of %s: %w", property, n, err)
	}
	if v.IsNull() {
		v = cty.NullVal(def.Type)
	}
	if len(def.Options) > 0 {
		if v.IsNull() || !v.Type().Equals(cty.String) || !slices.Contains(def.Options, v.AsString()) {
			return fmt.Errorf("%w: property '%s' of %s must be one of %s", ErrTypeMismatch, property, n, strings.Join(def.Options, ", "))
		}
	}
	n.values[property] = v
	return nil
}

// SetLiteral replaces a KindExpression property with a literal.
func (n *Node) SetLiteral(property string, v cty.Value) error {
	def, err := n.propertyOfKind(property, KindExpression)
	if err != nil {
		return err
	}
	ref, err := LiteralExpression(def.Type, v)
	if err != nil {
		return fmt.Errorf("property '%s' of %s: %w", property, n, err)
	}
	n.exprs[property] = ref
	return nil
}

// SetVariable points a KindVariable property at the named variable, which
// must exist and have exactly the slot type. An empty name clears the slot.
func (n *Node) SetVariable(r Resolver, property, name string) error {
	def, err := n.propertyOfKind(property, KindVariable)
	if err != nil {
		return err
	}
	if name == "" {
		n.vars[property] = VariableRef{Type: def.Type}
		return nil
	}
	v, ok := r.Variable(name)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownVariable, name)
	}
	if !v.Type.Equals(def.Type) {
		return fmt.Errorf("%w: variable '%s' is %s, property '%s' of %s expects %s", ErrTypeMismatch, v.Name, TypeName(v.Type), property, n, TypeName(def.Type))
	}
	n.vars[property] = VariableRef{Type: def.Type, Name: v.Name}
	return nil
}

// ClearVariable empties every variable slot naming the variable and reports
// how many were cleared.
func (n *Node) ClearVariable(name string) int {
	cleared := 0
	for prop, ref := range n.vars {
		if strings.EqualFold(ref.Name, name) {
			n.vars[prop] = VariableRef{Type: ref.Type}
			cleared++
		}
	}
	if n.entry != nil {
		for param, varName := range n.entry.Parameters {
			if strings.EqualFold(varName, name) {
				delete(n.entry.Parameters, param)
				cleared++
			}
		}
	}
	return cleared
}

// CompilerNext is the statement that runs after this one: the Next slot for
// linear statements, the computed successor for branches, and nothing for
// other categories.
func (n *Node) CompilerNext(r Resolver) StatementRef {
	if n.typ.Category != CategoryStatement {
		return StatementRef{}
	}
	if n.typ.Successor.Kind == SuccessorBranch {
		return n.typ.Successor.Next(r, n)
	}
	return n.stmts[NextProperty]
}
