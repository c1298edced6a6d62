// Package maths provides arithmetic and comparison nodes over numbers.
package maths

import (
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

const (
	OperationType       = "maths.operation"
	ComparisonType      = "maths.comparison"
	InlineOperationType = "maths.inline_operation"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the node types of this package.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(operation)
	r.RegisterNodeType(comparison)
	r.RegisterNodeType(inlineOperation)
}

func binaryProperties(ops []string) []model.PropertyDef {
	return []model.PropertyDef{
		{Name: "A", Kind: model.KindExpression, Type: cty.Number, Order: 0},
		{Name: "B", Kind: model.KindExpression, Type: cty.Number, Order: 1},
		{Name: "Op", Kind: model.KindValue, Type: cty.String, Order: 2, Options: ops, Default: cty.StringVal(ops[0])},
	}
}

// lowerBinary resolves both operands and combines them with fn.
func lowerBinary(ctx model.LowerContext, n *model.Node, fn binaryFunc) (runtime.Expr, error) {
	a, err := n.Expression("A").ResolveRequiredExpression(ctx)
	if err != nil {
		return nil, err
	}
	b, err := n.Expression("B").ResolveRequiredExpression(ctx)
	if err != nil {
		return nil, err
	}
	return func(f runtime.Frame) (cty.Value, error) {
		x, err := runtime.Number(f, a)
		if err != nil {
			return cty.NilVal, err
		}
		y, err := runtime.Number(f, b)
		if err != nil {
			return cty.NilVal, err
		}
		return fn(x, y)
	}, nil
}

var operation = &model.NodeType{
	Name:     OperationType,
	Label:    "Operation",
	Category: model.CategoryExpression,
	Properties: func([]cty.Type) []model.PropertyDef {
		return binaryProperties(arithmeticOps)
	},
	Result: func([]cty.Type) cty.Type { return cty.Number },
	LowerExpression: func(ctx model.LowerContext, n *model.Node) (runtime.Expr, error) {
		fn, err := arithmetic(n.Value("Op").AsString())
		if err != nil {
			return nil, err
		}
		return lowerBinary(ctx, n, fn)
	},
}

var comparison = &model.NodeType{
	Name:     ComparisonType,
	Label:    "Comparison",
	Category: model.CategoryExpression,
	Properties: func([]cty.Type) []model.PropertyDef {
		return binaryProperties(comparisonOps)
	},
	Result: func([]cty.Type) cty.Type { return cty.Bool },
	LowerExpression: func(ctx model.LowerContext, n *model.Node) (runtime.Expr, error) {
		fn, err := compare(n.Value("Op").AsString())
		if err != nil {
			return nil, err
		}
		return lowerBinary(ctx, n, fn)
	},
}

// inlineOperation applies an operation to a variable in place, e.g. x += 2.
var inlineOperation = &model.NodeType{
	Name:     InlineOperationType,
	Label:    "Inline Operation",
	Category: model.CategoryStatement,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{
			{Name: "Variable", Kind: model.KindVariable, Type: cty.Number, Order: 1},
			{Name: "Op", Kind: model.KindValue, Type: cty.String, Order: 2, Options: arithmeticOps, Default: cty.StringVal(arithmeticOps[0])},
			{Name: "Value", Kind: model.KindExpression, Type: cty.Number, Order: 3},
		}
	},
	LowerStatement: func(ctx model.LowerContext, n *model.Node) (runtime.Stmt, error) {
		fn, err := arithmetic(n.Value("Op").AsString())
		if err != nil {
			return nil, err
		}
		variable := n.VariableRef("Variable")
		get, err := variable.ResolveRequiredGetter(ctx)
		if err != nil {
			return nil, err
		}
		set, err := variable.ResolveRequiredSetter(ctx)
		if err != nil {
			return nil, err
		}
		value, err := n.Expression("Value").ResolveRequiredExpression(ctx)
		if err != nil {
			return nil, err
		}
		return func(f runtime.Frame) error {
			cur, err := runtime.Number(f, get)
			if err != nil {
				return err
			}
			operand, err := runtime.Number(f, value)
			if err != nil {
				return err
			}
			next, err := fn(cur, operand)
			if err != nil {
				return err
			}
			return set(f, next)
		}, nil
	},
}
