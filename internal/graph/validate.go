package graph

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/vk/visualgrid/internal/model"
)

// Validate reports every broken reference in the program: expression and
// statement links to missing nodes, variable slots naming missing or
// differently typed variables, and entry nodes whose definition or mapped
// variables are gone. It returns nil for a consistent program.
func (p *Program) Validate() error {
	var result *multierror.Error
	for _, n := range p.nodes.All() {
		for _, def := range n.Properties() {
			switch def.Kind {
			case model.KindExpression:
				ref := n.Expression(def.Name)
				if !ref.IsLiteral() && ref.HasValue() && ref.ResolveNode(p) == nil {
					result = multierror.Append(result, fmt.Errorf("%s.%s: %w: node %s does not exist", n, def.Name, model.ErrBrokenLink, ref.Target()))
				}
			case model.KindStatement:
				ref := n.Statement(def.Name)
				if ref.HasValue() && ref.ResolveNode(p) == nil {
					result = multierror.Append(result, fmt.Errorf("%s.%s: %w: node %s does not exist", n, def.Name, model.ErrBrokenLink, ref.Target()))
				}
			case model.KindVariable:
				if _, err := n.VariableRef(def.Name).ResolveVariable(p); err != nil {
					result = multierror.Append(result, fmt.Errorf("%s.%s: %w", n, def.Name, err))
				}
			}
		}
		if b := n.Entry(); b != nil {
			result = multierror.Append(result, p.validateEntry(n, b)...)
		}
	}
	return result.ErrorOrNil()
}

func (p *Program) validateEntry(n *model.Node, b *model.EntryBinding) []error {
	def, ok := p.env.Entry(b.EntryID)
	if !ok {
		return []error{fmt.Errorf("%s: %w: '%s'", n, model.ErrUnknownEntry, b.EntryID)}
	}
	params := make([]string, 0, len(b.Parameters))
	for name := range b.Parameters {
		params = append(params, name)
	}
	sort.Strings(params)

	var errs []error
	for _, name := range params {
		param, ok := def.Parameter(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w: entry '%s' has no parameter '%s'", n, model.ErrUnknownProperty, def.ID, name))
			continue
		}
		v, ok := p.vars.Get(b.Parameters[name])
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w: parameter '%s' maps to missing variable '%s'", n, model.ErrBrokenLink, name, b.Parameters[name]))
			continue
		}
		if !v.Type.Equals(param.Type) {
			errs = append(errs, fmt.Errorf("%s: %w: parameter '%s' is %s, variable '%s' is %s", n, model.ErrTypeMismatch, name, model.TypeName(param.Type), v.Name, model.TypeName(v.Type)))
		}
	}
	return errs
}
