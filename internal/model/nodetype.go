package model

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

// NextProperty is the implicit successor slot of linear statements.
const NextProperty = "Next"

// nextOrder places the implicit Next slot after every declared property.
const nextOrder = 1 << 20

// PropertyDef describes one editable property of a node type.
type PropertyDef struct {
	Name  string
	Label string
	Order int
	Kind  PropertyKind
	// Type is the value type for KindValue, the expression type for
	// KindExpression and the variable type for KindVariable. Unused for
	// KindStatement.
	Type cty.Type
	// Options restricts a string KindValue property to a fixed set.
	Options []string
	// Default seeds KindValue properties and, as a literal, KindExpression
	// properties of new nodes.
	Default cty.Value
}

// DisplayLabel returns Label, falling back to Name.
func (p PropertyDef) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// SuccessorKind selects how a statement reports the next statement to run.
type SuccessorKind int

const (
	// SuccessorLinear follows the stored Next reference.
	SuccessorLinear SuccessorKind = iota
	// SuccessorBranch computes the successor, e.g. where two branches meet.
	// Branch statements have no Next slot.
	SuccessorBranch
)

// Successor is the compiler-next behavior of a statement node type.
type Successor struct {
	Kind SuccessorKind
	// Next computes the successor of a SuccessorBranch statement.
	Next func(r Resolver, n *Node) StatementRef
}

// Resolver looks up nodes and variables of the program a reference lives in.
type Resolver interface {
	Node(id nodeid.ID) (*Node, bool)
	Variable(name string) (*Variable, bool)
}

// LowerContext is handed to lowering functions. Besides resolving references
// it lowers other nodes, so a node never needs to know how its children are
// implemented.
type LowerContext interface {
	Resolver
	Context() context.Context
	// Variables lists the program variables in declaration order.
	Variables() []*Variable
	LowerExpression(n *Node) (runtime.Expr, error)
	LowerStatement(n *Node) (runtime.Stmt, error)
	// LowerChain flattens the statement chain starting at start into one block.
	LowerChain(start StatementRef) (runtime.Stmt, error)
	// LowerBranches flattens two chains, each truncated where they converge.
	LowerBranches(a, b StatementRef) (runtime.Stmt, runtime.Stmt, error)
}

// NodeType is a registered kind of node. Node types are plain values built by
// modules; there is no reflection involved in discovering properties.
type NodeType struct {
	Name     string
	Label    string
	Category Category
	// TypeParams is the number of data type arguments a generic node takes,
	// e.g. 1 for a literal of T.
	TypeParams int
	// Properties lists the declared properties for the given type arguments.
	Properties func(typeArgs []cty.Type) []PropertyDef
	// Result is the produced type of an expression node.
	Result func(typeArgs []cty.Type) cty.Type
	// Successor applies to statements only. The zero value is linear.
	Successor Successor

	LowerStatement  func(ctx LowerContext, n *Node) (runtime.Stmt, error)
	LowerExpression func(ctx LowerContext, n *Node) (runtime.Expr, error)
}

// Validate checks that the node type is internally consistent.
func (t *NodeType) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("node type has no name")
	}
	switch t.Category {
	case CategoryStatement:
		if t.LowerStatement == nil {
			return fmt.Errorf("statement type '%s' has no statement lowering", t.Name)
		}
		if t.Successor.Kind == SuccessorBranch && t.Successor.Next == nil {
			return fmt.Errorf("branch statement type '%s' has no successor function", t.Name)
		}
	case CategoryExpression:
		if t.LowerExpression == nil {
			return fmt.Errorf("expression type '%s' has no expression lowering", t.Name)
		}
		if t.Result == nil {
			return fmt.Errorf("expression type '%s' has no result type", t.Name)
		}
	case CategoryEntry:
	default:
		return fmt.Errorf("node type '%s' has unknown category %s", t.Name, t.Category)
	}
	if t.TypeParams < 0 {
		return fmt.Errorf("node type '%s' has negative type parameter count", t.Name)
	}
	return nil
}

// DisplayLabel returns Label, falling back to Name.
func (t *NodeType) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Name
}

// PropertyDefs returns the full, ordered property list for the type
// arguments, including the implicit Next slot of linear statements.
func (t *NodeType) PropertyDefs(typeArgs []cty.Type) []PropertyDef {
	var defs []PropertyDef
	if t.Properties != nil {
		defs = append(defs, t.Properties(typeArgs)...)
	}
	if t.Category == CategoryStatement && t.Successor.Kind == SuccessorLinear {
		defs = append(defs, PropertyDef{
			Name:  NextProperty,
			Label: "Next",
			Order: nextOrder,
			Kind:  KindStatement,
		})
	}
	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].Order < defs[j].Order
	})
	return defs
}
