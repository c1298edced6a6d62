package graph

import (
	"context"
	"fmt"

	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/vk/visualgrid/internal/runtime"
)

// Source is what a Lowerer reads nodes and variables from. Program
// implements it.
type Source interface {
	model.Resolver
	Variables() []*model.Variable
}

// Lowerer turns nodes of one program into runtime fragments. It implements
// model.LowerContext and is used for a single compilation.
type Lowerer struct {
	ctx    context.Context
	source Source

	active map[nodeid.ID]struct{}
	exprs  map[nodeid.ID]runtime.Expr
}

// NewLowerer returns a Lowerer resolving references through src.
func NewLowerer(ctx context.Context, src Source) *Lowerer {
	return &Lowerer{
		ctx:    ctx,
		source: src,
		active: make(map[nodeid.ID]struct{}),
		exprs:  make(map[nodeid.ID]runtime.Expr),
	}
}

var _ model.LowerContext = (*Lowerer)(nil)

func (l *Lowerer) Context() context.Context {
	return l.ctx
}

func (l *Lowerer) Node(id nodeid.ID) (*model.Node, bool) {
	return l.source.Node(id)
}

func (l *Lowerer) Variable(name string) (*model.Variable, bool) {
	return l.source.Variable(name)
}

func (l *Lowerer) Variables() []*model.Variable {
	return l.source.Variables()
}

// LowerExpression lowers an expression node. Results are memoized per node.
func (l *Lowerer) LowerExpression(n *model.Node) (runtime.Expr, error) {
	if n.Category() != model.CategoryExpression {
		return nil, fmt.Errorf("%w: %s is a %s, not an expression", model.ErrKindMismatch, n, n.Category())
	}
	if e, ok := l.exprs[n.ID]; ok {
		return e, nil
	}
	if err := l.enter(n); err != nil {
		return nil, err
	}
	defer l.leave(n)

	e, err := n.Type().LowerExpression(l, n)
	if err != nil {
		return nil, fmt.Errorf("lowering %s: %w", n, err)
	}
	l.exprs[n.ID] = e
	return e, nil
}

// LowerStatement lowers a single statement node without its successors.
func (l *Lowerer) LowerStatement(n *model.Node) (runtime.Stmt, error) {
	if n.Category() != model.CategoryStatement {
		return nil, fmt.Errorf("%w: %s is a %s, not a statement", model.ErrKindMismatch, n, n.Category())
	}
	if err := l.enter(n); err != nil {
		return nil, err
	}
	defer l.leave(n)

	s, err := n.Type().LowerStatement(l, n)
	if err != nil {
		return nil, fmt.Errorf("lowering %s: %w", n, err)
	}
	return s, nil
}

func (l *Lowerer) LowerChain(start model.StatementRef) (runtime.Stmt, error) {
	stmts, err := FlattenExpressions(l, start)
	if err != nil {
		return nil, err
	}
	return runtime.Block(stmts...), nil
}

func (l *Lowerer) LowerBranches(a, b model.StatementRef) (runtime.Stmt, runtime.Stmt, error) {
	seqA, seqB, err := FlattenBranches(l, a, b)
	if err != nil {
		return nil, nil, err
	}
	return runtime.Block(seqA...), runtime.Block(seqB...), nil
}

func (l *Lowerer) enter(n *model.Node) error {
	if _, ok := l.active[n.ID]; ok {
		ctxlog.FromContext(l.ctx).Warn("Re-entrant lowering detected.", "node", n.String())
		return fmt.Errorf("%w: %s depends on itself", model.ErrCircularReference, n)
	}
	l.active[n.ID] = struct{}{}
	return nil
}

func (l *Lowerer) leave(n *model.Node) {
	delete(l.active, n.ID)
}
