package model

import (
	"fmt"

	"github.com/vk/visualgrid/internal/nodeid"
)

// Link stores a reference to candidate in the named property. The property
// must be an expression or statement slot compatible with the candidate, and
// the link must not make the node reachable from itself through links of the
// same kind. Nothing is modified when an error is returned.
func (n *Node) Link(r Resolver, property string, candidate *Node) error {
	if candidate == nil {
		return fmt.Errorf("%w: no candidate to link into '%s' of %s", ErrBrokenLink, property, n)
	}
	def, ok := n.Property(property)
	if !ok {
		return fmt.Errorf("%w: %s has no property '%s'", ErrUnknownProperty, n, property)
	}

	switch def.Kind {
	case KindExpression:
		if candidate.Category() != CategoryExpression {
			return fmt.Errorf("%w: '%s' of %s takes an expression, %s is a %s", ErrKindMismatch, property, n, candidate, candidate.Category())
		}
		if got := candidate.ResultType(); !got.Equals(def.Type) {
			return fmt.Errorf("%w: '%s' of %s takes %s, %s produces %s", ErrTypeMismatch, property, n, TypeName(def.Type), candidate, TypeName(got))
		}
	case KindStatement:
		if candidate.Category() != CategoryStatement {
			return fmt.Errorf("%w: '%s' of %s takes a statement, %s is a %s", ErrKindMismatch, property, n, candidate, candidate.Category())
		}
	default:
		return fmt.Errorf("%w: '%s' of %s is a %s property", ErrUnlinkable, property, n, def.Kind)
	}

	if reaches(r, candidate, n.ID, def.Kind) {
		return fmt.Errorf("%w: linking %s into '%s' of %s would create a cycle", ErrCircularReference, candidate, property, n)
	}

	if def.Kind == KindExpression {
		n.exprs[property] = ExpressionTo(def.Type, candidate.ID)
	} else {
		n.stmts[property] = StatementTo(candidate.ID)
	}
	return nil
}

// reaches walks same-kind links breadth first from start and reports whether
// target is encountered, start included.
func reaches(r Resolver, start *Node, target nodeid.ID, kind PropertyKind) bool {
	queue := []*Node{start}
	seen := map[nodeid.ID]struct{}{start.ID: {}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.ID.Equal(target) {
			return true
		}
		for _, id := range cur.Children(kind) {
			if id.Equal(target) {
				return true
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if child, ok := r.Node(id); ok {
				queue = append(queue, child)
			}
		}
	}
	return false
}

// Children returns the ids linked from properties of the given kind, in
// property order. Literals and empty slots are skipped.
func (n *Node) Children(kind PropertyKind) []nodeid.ID {
	var ids []nodeid.ID
	for _, def := range n.defs {
		if def.Kind != kind {
			continue
		}
		var target nodeid.ID
		switch kind {
		case KindExpression:
			ref := n.exprs[def.Name]
			if ref.literal {
				continue
			}
			target = ref.target
		case KindStatement:
			target = n.stmts[def.Name].target
		default:
			continue
		}
		if !target.IsNil() {
			ids = append(ids, target)
		}
	}
	return ids
}

// ClearLink resets the named property. With onlyIf, the property is reset
// only when it currently points at that node.
func (n *Node) ClearLink(property string, onlyIf ...nodeid.ID) error {
	def, ok := n.Property(property)
	if !ok {
		return fmt.Errorf("%w: %s has no property '%s'", ErrUnknownProperty, n, property)
	}
	n.clear(def, onlyIf)
	return nil
}

// ClearAllLinks applies ClearLink to every expression and statement property.
func (n *Node) ClearAllLinks(onlyIf ...nodeid.ID) {
	for _, def := range n.defs {
		if def.Kind == KindExpression || def.Kind == KindStatement {
			n.clear(def, onlyIf)
		}
	}
}

func (n *Node) clear(def PropertyDef, onlyIf []nodeid.ID) {
	matches := func(target nodeid.ID) bool {
		return len(onlyIf) == 0 || (!target.IsNil() && target.Equal(onlyIf[0]))
	}
	switch def.Kind {
	case KindExpression:
		ref := n.exprs[def.Name]
		if ref.literal && len(onlyIf) > 0 {
			return
		}
		if matches(ref.target) {
			n.exprs[def.Name] = EmptyExpression(def.Type)
		}
	case KindStatement:
		if matches(n.stmts[def.Name].target) {
			n.stmts[def.Name] = StatementRef{}
		}
	case KindVariable:
		if len(onlyIf) == 0 {
			n.vars[def.Name] = VariableRef{Type: def.Type}
		}
	case KindValue:
		if len(onlyIf) == 0 {
			v, err := CoerceDefault(def.Type, def.Default)
			if err == nil {
				n.values[def.Name] = v
			}
		}
	}
}
