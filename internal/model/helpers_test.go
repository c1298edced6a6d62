package model

import (
	"strings"

	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/vk/visualgrid/internal/runtime"
	"github.com/zclconf/go-cty/cty"
)

// testResolver is a map-backed Resolver.
type testResolver struct {
	nodes map[nodeid.ID]*Node
	vars  map[string]*Variable
}

func newTestResolver(nodes ...*Node) *testResolver {
	r := &testResolver{nodes: map[nodeid.ID]*Node{}, vars: map[string]*Variable{}}
	for _, n := range nodes {
		r.nodes[n.ID] = n
	}
	return r
}

func (r *testResolver) Node(id nodeid.ID) (*Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

func (r *testResolver) Variable(name string) (*Variable, bool) {
	v, ok := r.vars[strings.ToLower(name)]
	return v, ok
}

func (r *testResolver) addVar(v *Variable) {
	r.vars[strings.ToLower(v.Name)] = v
}

// binaryType is a generic expression T with two T operands.
var binaryType = &NodeType{
	Name:       "test.binary",
	Category:   CategoryExpression,
	TypeParams: 1,
	Properties: func(args []cty.Type) []PropertyDef {
		return []PropertyDef{
			{Name: "A", Kind: KindExpression, Type: args[0], Order: 1},
			{Name: "B", Kind: KindExpression, Type: args[0], Order: 2},
			{Name: "Mode", Kind: KindValue, Type: cty.String, Order: 3, Options: []string{"x", "y"}, Default: cty.StringVal("x")},
			{Name: "Target", Kind: KindVariable, Type: args[0], Order: 4},
		}
	},
	Result: func(args []cty.Type) cty.Type { return args[0] },
	LowerExpression: func(LowerContext, *Node) (runtime.Expr, error) {
		return runtime.Const(cty.Zero), nil
	},
}

// blockType is a linear statement with a body.
var blockType = &NodeType{
	Name:     "test.block",
	Category: CategoryStatement,
	Properties: func([]cty.Type) []PropertyDef {
		return []PropertyDef{
			{Name: "Body", Kind: KindStatement, Order: 1},
			{Name: "Cond", Kind: KindExpression, Type: cty.Bool, Order: 2, Default: cty.True},
		}
	},
	LowerStatement: func(LowerContext, *Node) (runtime.Stmt, error) {
		return runtime.Noop, nil
	},
}

func mustNode(t *NodeType, args ...cty.Type) *Node {
	n, err := NewNode(t, args...)
	if err != nil {
		panic(err)
	}
	return n
}
