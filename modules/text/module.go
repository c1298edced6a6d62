// Package text provides string nodes.
package text

import (
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

const (
	ConcatType   = "text.concat"
	ToStringType = "text.to_string"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the node types of this package.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(concat)
	r.RegisterNodeType(toString)
}

// concat joins A and B. Unset operands read as the empty string.
var concat = &model.NodeType{
	Name:     ConcatType,
	Label:    "Concat",
	Category: model.CategoryExpression,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{
			{Name: "A", Kind: model.KindExpression, Type: cty.String, Order: 0},
			{Name: "B", Kind: model.KindExpression, Type: cty.String, Order: 1},
		}
	},
	Result: func([]cty.Type) cty.Type { return cty.String },
	LowerExpression: func(ctx model.LowerContext, n *model.Node) (runtime.Expr, error) {
		a, err := n.Expression("A").ResolveExpressionOr(ctx, cty.StringVal(""))
		if err != nil {
			return nil, err
		}
		b, err := n.Expression("B").ResolveExpressionOr(ctx, cty.StringVal(""))
		if err != nil {
			return nil, err
		}
		return func(f runtime.Frame) (cty.Value, error) {
			x, err := runtime.String(f, a)
			if err != nil {
				return cty.NilVal, err
			}
			y, err := runtime.String(f, b)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(x + y), nil
		}, nil
	},
}

var toString = &model.NodeType{
	Name:       ToStringType,
	Label:      "To String",
	Category:   model.CategoryExpression,
	TypeParams: 1,
	Properties: func(args []cty.Type) []model.PropertyDef {
		return []model.PropertyDef{{Name: "Value", Kind: model.KindExpression, Type: args[0]}}
	},
	Result: func([]cty.Type) cty.Type { return cty.String },
	LowerExpression: func(ctx model.LowerContext, n *model.Node) (runtime.Expr, error) {
		value, err := n.Expression("Value").ResolveRequiredExpression(ctx)
		if err != nil {
			return nil, err
		}
		return func(f runtime.Frame) (cty.Value, error) {
			v, err := value(f)
			if err != nil {
				return cty.NilVal, err
			}
			s, err := Format(v)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(s), nil
		}, nil
	},
}
