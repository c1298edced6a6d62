package graph

import (
	"fmt"

	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/vk/visualgrid/internal/runtime"
)

// Chain returns the ids of the statements reached from start by repeatedly
// following the compiler-next statement. The walk ends at an empty or
// unresolved reference, at a node that is not a statement, or just before a
// node would be visited a second time.
func Chain(r model.Resolver, start model.StatementRef) []nodeid.ID {
	nodes, _ := walk(r, start, nodeid.Nil)
	ids := make([]nodeid.ID, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// walk collects the chain from start, stopping before stop. A revisit ends
// the walk with ErrCircularReference alongside the nodes collected so far.
func walk(r model.Resolver, start model.StatementRef, stop nodeid.ID) ([]*model.Node, error) {
	var nodes []*model.Node
	seen := make(map[nodeid.ID]struct{})
	for ref := start; ref.HasValue(); {
		if !stop.IsNil() && ref.Target().Equal(stop) {
			break
		}
		n := ref.ResolveNode(r)
		if n == nil || n.Category() != model.CategoryStatement {
			break
		}
		if _, ok := seen[n.ID]; ok {
			return nodes, fmt.Errorf("%w: statement chain revisits %s", model.ErrCircularReference, n)
		}
		seen[n.ID] = struct{}{}
		nodes = append(nodes, n)
		ref = n.CompilerNext(r)
	}
	return nodes, nil
}

// FindNextSharedNode returns the first statement on the chain of b that also
// lies on the chain of a, i.e. the node where two branches converge. It
// reports false when either branch is empty or they never meet.
func FindNextSharedNode(r model.Resolver, a, b model.StatementRef) (model.StatementRef, bool) {
	if !a.HasValue() || !b.HasValue() {
		return model.StatementRef{}, false
	}
	onA := make(map[nodeid.ID]struct{})
	for _, id := range Chain(r, a) {
		onA[id] = struct{}{}
	}
	for _, id := range Chain(r, b) {
		if _, ok := onA[id]; ok {
			return model.StatementTo(id), true
		}
	}
	return model.StatementRef{}, false
}

// FlattenExpressions lowers every statement of the chain starting at start,
// in execution order.
func FlattenExpressions(ctx model.LowerContext, start model.StatementRef) ([]runtime.Stmt, error) {
	return flattenUntil(ctx, start, nodeid.Nil)
}

// FlattenBranches flattens two chains, each truncated before the node where
// they converge. Without a convergence point both chains are flattened to
// their ends.
func FlattenBranches(ctx model.LowerContext, a, b model.StatementRef) ([]runtime.Stmt, []runtime.Stmt, error) {
	stop := nodeid.Nil
	if shared, ok := FindNextSharedNode(ctx, a, b); ok {
		stop = shared.Target()
	}
	seqA, err := flattenUntil(ctx, a, stop)
	if err != nil {
		return nil, nil, err
	}
	seqB, err := flattenUntil(ctx, b, stop)
	if err != nil {
		return nil, nil, err
	}
	return seqA, seqB, nil
}

func flattenUntil(ctx model.LowerContext, start model.StatementRef, stop nodeid.ID) ([]runtime.Stmt, error) {
	nodes, err := walk(ctx, start, stop)
	if err != nil {
		return nil, err
	}
	stmts := make([]runtime.Stmt, 0, len(nodes))
	for _, n := range nodes {
		s, err := ctx.LowerStatement(n)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}
