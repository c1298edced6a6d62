package compiler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vk/visualgrid/internal/contract"
	"github.com/vk/visualgrid/internal/ctxlog"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/varstore"
	"github.com/zclconf/go-cty/cty"
)

// Instance is one running copy of a compiled program. It implements
// contract.Program. An Instance is not safe for concurrent use.
type Instance struct {
	ctx     context.Context
	opts    options
	entries map[string]*entry
	vars    *varstore.Store
}

var _ contract.Program = (*Instance)(nil)

// ResetVariables restores every variable to its default.
func (i *Instance) ResetVariables() {
	i.vars.Reset()
}

func (i *Instance) GetVariable(name string) (cty.Value, error) {
	return i.vars.Value(name)
}

func (i *Instance) SetVariable(name string, v cty.Value) error {
	return i.vars.Set(name, v)
}

// Invoke runs an entry. Entries the program never implemented run and do
// nothing.
func (i *Instance) Invoke(entryID string, args ...cty.Value) error {
	e, ok := i.entries[strings.ToLower(entryID)]
	if !ok {
		return fmt.Errorf("%w: '%s'", model.ErrUnknownEntry, entryID)
	}
	start := time.Now()
	err := e.run(&frame{ctx: ctxlog.With(i.ctx, "entry", e.def.ID), inst: i, entry: e.def.ID}, args)
	i.opts.recorder.ObserveInvoke(e.def.ID, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("entry '%s': %w", e.def.ID, err)
	}
	return nil
}

// frame is the runtime.Frame of one invocation.
type frame struct {
	ctx   context.Context
	inst  *Instance
	entry string
}

func (f *frame) Variable(name string) (cty.Value, error) {
	return f.inst.vars.Value(name)
}

func (f *frame) SetVariable(name string, v cty.Value) error {
	return f.inst.vars.Set(name, v)
}

func (f *frame) Print(line string) error {
	if _, err := io.WriteString(f.inst.opts.output, line+"\n"); err != nil {
		return err
	}
	if p := f.inst.opts.publisher; p != nil {
		if err := p.Publish(f.ctx, f.entry, line); err != nil {
			ctxlog.FromContext(f.ctx).Warn("Failed to publish program output.", "error", err)
		}
	}
	return nil
}
