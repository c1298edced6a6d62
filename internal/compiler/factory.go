package compiler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/visualgrid/internal/contract"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/varstore"
	"github.com/zclconf/go-cty/cty"
)

// Factory creates isolated instances of a compiled program. It is
// immutable and safe for concurrent use.
type Factory[C any] struct {
	ctx      context.Context
	contract contract.Contract[C]
	opts     options

	entries map[string]*entry
	// vars is the template every instance clones. It is never mutated.
	vars *varstore.Store
}

// Entries lists the compiled entry ids in sorted order.
func (f *Factory[C]) Entries() []string {
	ids := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		ids = append(ids, e.def.ID)
	}
	sort.Strings(ids)
	return ids
}

// New creates a bare instance with every variable at its default.
func (f *Factory[C]) New() *Instance {
	f.opts.recorder.InstanceCreated()
	return &Instance{
		ctx:     f.ctx,
		opts:    f.opts,
		entries: f.entries,
		vars:    f.vars.Clone(),
	}
}

// CreateProgram creates an instance and wraps it in C. The constructor whose
// parameter types equal the types of args is used. Without constructors the
// instance itself must implement C and no args may be given.
func (f *Factory[C]) CreateProgram(args ...any) (C, error) {
	var zero C
	vals, err := contract.ToValues(args...)
	if err != nil {
		return zero, err
	}

	if len(f.contract.Constructors) == 0 {
		if len(vals) > 0 {
			return zero, fmt.Errorf("%w: no constructor takes %s", model.ErrAmbiguousConstructor, valueTypes(vals))
		}
		c, ok := any(f.New()).(C)
		if !ok {
			return zero, fmt.Errorf("%w: instances do not implement %T and no constructor is declared", model.ErrAmbiguousConstructor, zero)
		}
		return c, nil
	}

	var matches []contract.Constructor[C]
	for _, ctor := range f.contract.Constructors {
		if matchesArgs(ctor.Params, vals) {
			matches = append(matches, ctor)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%w: no constructor takes %s", model.ErrAmbiguousConstructor, valueTypes(vals))
	case 1:
		return matches[0].New(f.New(), vals)
	default:
		return zero, fmt.Errorf("%w: %d constructors take %s", model.ErrAmbiguousConstructor, len(matches), valueTypes(vals))
	}
}

func matchesArgs(params []cty.Type, vals []cty.Value) bool {
	if len(params) != len(vals) {
		return false
	}
	for i := range params {
		if !params[i].Equals(vals[i].Type()) {
			return false
		}
	}
	return true
}

func valueTypes(vals []cty.Value) string {
	names := make([]string, len(vals))
	for i, v := range vals {
		names[i] = model.TypeName(v.Type())
	}
	return "(" + strings.Join(names, ", ") + ")"
}
