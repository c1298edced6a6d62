package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/environment"
	"github.com/vk/visualgrid/internal/inmemorystore"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/vk/visualgrid/internal/nodestore"
	"github.com/vk/visualgrid/internal/varstore"
	"github.com/zclconf/go-cty/cty"
)

// Program is an editable visual program.
type Program struct {
	ctx   context.Context
	env   *environment.Environment
	nodes nodestore.Store
	vars  *varstore.Store
}

// Option customizes a Program.
type Option func(*Program)

// WithNodeStore replaces the default in-memory node store.
func WithNodeStore(s nodestore.Store) Option {
	return func(p *Program) {
		p.nodes = s
	}
}

// NewProgram creates an empty program for env. The environment's locked
// variables are merged in immediately.
func NewProgram(ctx context.Context, env *environment.Environment, opts ...Option) *Program {
	p := &Program{
		ctx:   ctx,
		env:   env,
		nodes: inmemorystore.New(),
		vars:  varstore.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.MergeWithEnvironment(); err != nil {
		// An empty variable store cannot conflict.
		panic(err)
	}
	ctxlog.FromContext(ctx).Debug("Program created.", "locked_variables", p.vars.Len(), "entries", len(env.Entries()))
	return p
}

// Environment returns the program environment.
func (p *Program) Environment() *environment.Environment {
	return p.env
}

// Node looks up a node by id. It implements model.Resolver.
func (p *Program) Node(id nodeid.ID) (*model.Node, bool) {
	return p.nodes.Get(id)
}

// Variable looks up a variable by case-insensitive name. It implements
// model.Resolver.
func (p *Program) Variable(name string) (*model.Variable, bool) {
	return p.vars.Get(name)
}

// Nodes returns all nodes in insertion order.
func (p *Program) Nodes() []*model.Node {
	return p.nodes.All()
}

// Variables returns all variables in declaration order.
func (p *Program) Variables() []*model.Variable {
	return p.vars.All()
}

// VariableStore exposes the variable store, e.g. for cloning at compile time.
func (p *Program) VariableStore() *varstore.Store {
	return p.vars
}

// CreateNode instantiates a registered node type and adds it to the program.
func (p *Program) CreateNode(typeName string, typeArgs ...cty.Type) (*model.Node, error) {
	if typeName == model.EntryTypeName {
		return nil, fmt.Errorf("%w: entry nodes are created with CreateEntry", model.ErrNotAllowed)
	}
	t, err := p.checkNodeType(typeName, typeArgs)
	if err != nil {
		return nil, err
	}
	n, err := model.NewNode(t, typeArgs...)
	if err != nil {
		return nil, err
	}
	if err := p.nodes.Add(n); err != nil {
		return nil, err
	}
	ctxlog.FromContext(p.ctx).Debug("Node created.", "node", n.String())
	return n, nil
}

func (p *Program) checkNodeType(typeName string, typeArgs []cty.Type) (*model.NodeType, error) {
	if !p.env.AllowsNode(typeName) {
		return nil, fmt.Errorf("%w: node type '%s'", model.ErrNotAllowed, typeName)
	}
	t, err := p.env.Registry().MustLookup(typeName)
	if err != nil {
		return nil, err
	}
	for _, a := range typeArgs {
		if !p.env.AllowsDataType(a) {
			return nil, fmt.Errorf("%w: data type %s for node type '%s'", model.ErrNotAllowed, model.TypeName(a), typeName)
		}
	}
	return t, nil
}

// AddNode adds an already constructed node, as done when a program is
// reconstructed from storage. Entry nodes must be bound to a known entry
// that has no node yet.
func (p *Program) AddNode(n *model.Node) error {
	if n == nil {
		return fmt.Errorf("cannot add a nil node")
	}
	if b := n.Entry(); b != nil {
		if _, ok := p.env.Entry(b.EntryID); !ok {
			return fmt.Errorf("%w: '%s'", model.ErrUnknownEntry, b.EntryID)
		}
		if existing, ok := p.EntryNode(b.EntryID); ok && existing != n {
			return fmt.Errorf("%w: entry '%s' already has node %s", model.ErrDuplicateName, b.EntryID, existing.ID)
		}
	} else if _, err := p.checkNodeType(n.Type().Name, n.TypeArgs()); err != nil {
		return err
	}
	return p.nodes.Add(n)
}

// CreateEntry creates the entry node for an environment entry definition.
// There is at most one entry node per definition.
func (p *Program) CreateEntry(entryID string) (*model.Node, error) {
	def, ok := p.env.Entry(entryID)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", model.ErrUnknownEntry, entryID)
	}
	if existing, ok := p.EntryNode(def.ID); ok {
		return nil, fmt.Errorf("%w: entry '%s' already has node %s", model.ErrDuplicateName, def.ID, existing.ID)
	}
	n := model.NewEntryNode(nodeid.New(), def)
	if err := p.nodes.Add(n); err != nil {
		return nil, err
	}
	ctxlog.FromContext(p.ctx).Debug("Entry node created.", "entry", def.ID, "node", n.String())
	return n, nil
}

// EntryNode finds the entry node bound to the entry definition id.
func (p *Program) EntryNode(entryID string) (*model.Node, bool) {
	for _, n := range p.nodes.All() {
		if b := n.Entry(); b != nil && strings.EqualFold(b.EntryID, entryID) {
			return n, true
		}
	}
	return nil, false
}

// MapEntryParameter makes the entry initialize variable from parameter on
// every invocation. An empty variable name removes the mapping.
func (p *Program) MapEntryParameter(entryNodeID nodeid.ID, parameter, variable string) error {
	n, ok := p.nodes.Get(entryNodeID)
	if !ok || n.Entry() == nil {
		return fmt.Errorf("%w: %s is not an entry node", model.ErrBrokenLink, entryNodeID)
	}
	def, ok := p.env.Entry(n.Entry().EntryID)
	if !ok {
		return fmt.Errorf("%w: '%s'", model.ErrUnknownEntry, n.Entry().EntryID)
	}
	param, ok := def.Parameter(parameter)
	if !ok {
		return fmt.Errorf("%w: entry '%s' has no parameter '%s'", model.ErrUnknownProperty, def.ID, parameter)
	}
	if variable == "" {
		delete(n.Entry().Parameters, param.Name)
		return nil
	}
	v, ok := p.vars.Get(variable)
	if !ok {
		return fmt.Errorf("%w: '%s'", model.ErrUnknownVariable, variable)
	}
	if !v.Type.Equals(param.Type) {
		return fmt.Errorf("%w: parameter '%s' is %s, variable '%s' is %s", model.ErrTypeMismatch, param.Name, model.TypeName(param.Type), v.Name, model.TypeName(v.Type))
	}
	n.Entry().Parameters[param.Name] = v.Name
	return nil
}

// RemoveNode deletes a node after clearing every reference to it from the
// remaining nodes. It reports whether the node existed.
func (p *Program) RemoveNode(id nodeid.ID) bool {
	n, ok := p.nodes.Get(id)
	if !ok {
		return false
	}
	for _, other := range p.nodes.All() {
		if other != n {
			other.ClearAllLinks(id)
		}
	}
	p.nodes.Remove(id)
	ctxlog.FromContext(p.ctx).Debug("Node removed.", "node", n.String())
	return true
}

// Link links the candidate node into the property of the target node.
func (p *Program) Link(targetID nodeid.ID, property string, candidateID nodeid.ID) error {
	target, ok := p.nodes.Get(targetID)
	if !ok {
		return fmt.Errorf("%w: target node %s does not exist", model.ErrBrokenLink, targetID)
	}
	candidate, ok := p.nodes.Get(candidateID)
	if !ok {
		return fmt.Errorf("%w: candidate node %s does not exist", model.ErrBrokenLink, candidateID)
	}
	if err := target.Link(p, property, candidate); err != nil {
		return err
	}
	ctxlog.FromContext(p.ctx).Debug("Nodes linked.", "target", target.String(), "property", property, "candidate", candidate.String())
	return nil
}

// Unlink clears a property of the target node, see model.Node.ClearLink.
func (p *Program) Unlink(targetID nodeid.ID, property string, onlyIf ...nodeid.ID) error {
	target, ok := p.nodes.Get(targetID)
	if !ok {
		return fmt.Errorf("%w: target node %s does not exist", model.ErrBrokenLink, targetID)
	}
	return target.ClearLink(property, onlyIf...)
}

// SetVariableRef points a variable slot of a node at a program variable.
func (p *Program) SetVariableRef(nodeID nodeid.ID, property, variable string) error {
	n, ok := p.nodes.Get(nodeID)
	if !ok {
		return fmt.Errorf("%w: node %s does not exist", model.ErrBrokenLink, nodeID)
	}
	return n.SetVariable(p, property, variable)
}

// AddVariable declares a user variable. Its type must be an allowed data type.
func (p *Program) AddVariable(name string, t cty.Type, def cty.Value) (*model.Variable, error) {
	if !p.env.AllowsDataType(t) {
		return nil, fmt.Errorf("%w: data type %s for variable '%s'", model.ErrNotAllowed, model.TypeName(t), name)
	}
	return p.vars.Add(name, t, def)
}

// RemoveVariable deletes an unlocked variable and clears every variable
// slot and entry parameter mapping naming it. It returns false, and changes
// nothing, when the variable is missing or locked.
func (p *Program) RemoveVariable(name string) bool {
	v, ok := p.vars.Get(name)
	if !ok || !p.vars.Remove(name) {
		return false
	}
	cleared := 0
	for _, n := range p.nodes.All() {
		cleared += n.ClearVariable(v.Name)
	}
	ctxlog.FromContext(p.ctx).Debug("Variable removed.", "variable", v.Name, "references_cleared", cleared)
	return true
}

// MergeWithEnvironment adds the environment's locked variables, locking any
// same-typed user variables of the same name. A type clash fails with
// model.ErrTypeConflict and changes nothing.
func (p *Program) MergeWithEnvironment() error {
	return p.vars.Merge(p.env.LockedVariables())
}
