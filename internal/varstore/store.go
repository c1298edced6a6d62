// Package varstore holds the named, typed variables of a visual program.
//
// Names are unique and matched case-insensitively everywhere: lookups,
// duplicate checks and removal. The original spelling is kept for display.
package varstore

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vk/visualgrid/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Store is an ordered, case-insensitive variable collection.
type Store struct {
	byName map[string]*model.Variable
	order  []*model.Variable
}

// New creates an empty store.
func New() *Store {
	return &Store{byName: make(map[string]*model.Variable)}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add declares a variable. It fails with model.ErrDuplicateName when the name
// is taken and model.ErrInvalidDefault when def does not fit t.
func (s *Store) Add(name string, t cty.Type, def cty.Value) (*model.Variable, error) {
	if existing, ok := s.byName[key(name)]; ok {
		return nil, fmt.Errorf("%w: variable '%s' already exists as '%s'", model.ErrDuplicateName, name, existing.Name)
	}
	v, err := model.NewVariable(strings.TrimSpace(name), t, def)
	if err != nil {
		return nil, err
	}
	s.insert(v)
	return v, nil
}

func (s *Store) insert(v *model.Variable) {
	s.byName[key(v.Name)] = v
	s.order = append(s.order, v)
}

// Get looks up a variable by case-insensitive name.
func (s *Store) Get(name string) (*model.Variable, bool) {
	v, ok := s.byName[key(name)]
	return v, ok
}

// Remove deletes an unlocked variable. It returns false when the variable
// does not exist or is locked. Cascading to references is up to the caller.
func (s *Store) Remove(name string) bool {
	v, ok := s.byName[key(name)]
	if !ok || v.Locked {
		return false
	}
	delete(s.byName, key(name))
	s.order = slices.DeleteFunc(s.order, func(o *model.Variable) bool { return o == v })
	return true
}

// All returns the variables in declaration order.
func (s *Store) All() []*model.Variable {
	return slices.Clone(s.order)
}

// Len is the number of variables.
func (s *Store) Len() int {
	return len(s.order)
}

// Merge folds locked variables into the store. Missing ones are added and
// existing ones of the same type become locked. A type clash on any of them
// fails with model.ErrTypeConflict before anything is changed.
func (s *Store) Merge(locked []*model.Variable) error {
	for _, lv := range locked {
		if existing, ok := s.byName[key(lv.Name)]; ok && !existing.Type.Equals(lv.Type) {
			return fmt.Errorf("%w: variable '%s' is %s in the program but %s in the environment",
				model.ErrTypeConflict, existing.Name, model.TypeName(existing.Type), model.TypeName(lv.Type))
		}
	}
	for _, lv := range locked {
		if existing, ok := s.byName[key(lv.Name)]; ok {
			existing.Locked = true
			continue
		}
		c := lv.Clone()
		c.Locked = true
		c.Reset()
		s.insert(c)
	}
	return nil
}

// Clone returns an independent copy with every value reset to its default.
func (s *Store) Clone() *Store {
	c := New()
	for _, v := range s.order {
		cv := v.Clone()
		cv.Reset()
		c.insert(cv)
	}
	return c
}

// Reset restores every variable to its default.
func (s *Store) Reset() {
	for _, v := range s.order {
		v.Reset()
	}
}

// Set assigns a value to an existing variable.
func (s *Store) Set(name string, val cty.Value) error {
	v, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("%w: '%s'", model.ErrUnknownVariable, name)
	}
	return v.Assign(val)
}

// Value reads the current value of a variable.
func (s *Store) Value(name string) (cty.Value, error) {
	v, ok := s.Get(name)
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: '%s'", model.ErrUnknownVariable, name)
	}
	return v.Value, nil
}
