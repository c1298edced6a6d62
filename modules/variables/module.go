// Package variables provides literal values and variable access nodes.
package variables

import (
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

const (
	// LiteralType yields the constant held in its Value property.
	LiteralType = "variables.literal"
	// GetType reads a variable.
	GetType = "variables.get"
	// SetType assigns an expression to a variable.
	SetType = "variables.set"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the node types of this package.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(literal)
	r.RegisterNodeType(get)
	r.RegisterNodeType(set)
}

func sameAsArg(args []cty.Type) cty.Type {
	return args[0]
}

var literal = &model.NodeType{
	Name:       LiteralType,
	Label:      "Literal",
	Category:   model.CategoryExpression,
	TypeParams: 1,
	Properties: func(args []cty.Type) []model.PropertyDef {
		return []model.PropertyDef{{Name: "Value", Kind: model.KindValue, Type: args[0]}}
	},
	Result: sameAsArg,
	LowerExpression: func(_ model.LowerContext, n *model.Node) (runtime.Expr, error) {
		return runtime.Const(n.Value("Value")), nil
	},
}

var get = &model.NodeType{
	Name:       GetType,
	Label:      "Get Variable",
	Category:   model.CategoryExpression,
	TypeParams: 1,
	Properties: func(args []cty.Type) []model.PropertyDef {
		return []model.PropertyDef{{Name: "Variable", Kind: model.KindVariable, Type: args[0]}}
	},
	Result: sameAsArg,
	LowerExpression: func(ctx model.LowerContext, n *model.Node) (runtime.Expr, error) {
		return n.VariableRef("Variable").ResolveRequiredGetter(ctx)
	},
}

var set = &model.NodeType{
	Name:       SetType,
	Label:      "Set Variable",
	Category:   model.CategoryStatement,
	TypeParams: 1,
	Properties: func(args []cty.Type) []model.PropertyDef {
		return []model.PropertyDef{
			{Name: "Variable", Kind: model.KindVariable, Type: args[0], Order: 0},
			{Name: "Value", Kind: model.KindExpression, Type: args[0], Order: 1},
		}
	},
	LowerStatement: func(ctx model.LowerContext, n *model.Node) (runtime.Stmt, error) {
		setter, err := n.VariableRef("Variable").ResolveRequiredSetter(ctx)
		if err != nil {
			return nil, err
		}
		value, err := n.Expression("Value").ResolveRequiredExpression(ctx)
		if err != nil {
			return nil, err
		}
		return func(f runtime.Frame) error {
			v, err := value(f)
			if err != nil {
				return err
			}
			return setter(f, v)
		}, nil
	},
}
