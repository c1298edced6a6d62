package inmemorystore

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/vk/visualgrid/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
//
// The store keeps two views of the same nodes:
//   - byID: Maps node IDs to nodes for O(1) lookups
//   - order: The insertion order, used by All
//
// Editing a program is single-threaded, but the RWMutex lets read-only
// consumers (validation, catalog dumps) run alongside each other safely.
type Store struct {
	mu    sync.RWMutex
	byID  map[nodeid.ID]*model.Node
	order []*model.Node
}

// New creates a new, empty in-memory node store.
func New() nodestore.Store {
	return &Store{byID: make(map[nodeid.ID]*model.Node)}
}

// Add inserts a node after checking identity and instance uniqueness.
func (s *Store) Add(n *model.Node) error {
	if n == nil {
		return fmt.Errorf("cannot store a nil node")
	}
	if n.ID.IsNil() {
		return fmt.Errorf("cannot store node %s without an id", n.Type().Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byID[n.ID]; ok {
		if existing == n {
			return fmt.Errorf("%w: node %s is already in the program", model.ErrDuplicateNode, n)
		}
		return fmt.Errorf("%w: id %s is already used by %s", model.ErrDuplicateNode, n.ID, existing)
	}
	// The ID may have been changed after the instance was stored.
	if slices.Contains(s.order, n) {
		return fmt.Errorf("%w: node %s is already in the program", model.ErrDuplicateNode, n)
	}

	s.byID[n.ID] = n
	s.order = append(s.order, n)
	return nil
}

// Get looks up a node by ID.
func (s *Store) Get(id nodeid.ID) (*model.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.byID[id]
	return n, ok
}

// Remove deletes a node by ID.
func (s *Store) Remove(id nodeid.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	s.order = slices.DeleteFunc(s.order, func(o *model.Node) bool { return o == n })
	return true
}

// All returns a copy of the nodes in insertion order.
func (s *Store) All() []*model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Len returns the number of stored nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
