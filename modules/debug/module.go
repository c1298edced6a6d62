// Package debug provides nodes that write to the program output.
package debug

import (
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

// PrintType writes its Value as one line of output.
const PrintType = "debug.print"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the node types of this package.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(printNode)
}

var printNode = &model.NodeType{
	Name:     PrintType,
	Label:    "Print",
	Category: model.CategoryStatement,
	Properties: func([]cty.Type) []model.PropertyDef {
		return []model.PropertyDef{{Name: "Value", Kind: model.KindExpression, Type: cty.String}}
	},
	LowerStatement: func(ctx model.LowerContext, n *model.Node) (runtime.Stmt, error) {
		value, err := n.Expression("Value").ResolveRequiredExpression(ctx)
		if err != nil {
			return nil, err
		}
		return func(f runtime.Frame) error {
			s, err := runtime.String(f, value)
			if err != nil {
				return err
			}
			return f.Print(s)
		}, nil
	},
}
