// Package nodestore defines the interface for holding the nodes of a visual
// program.
//
// # Why Node Store Exists
//
// A program is edited by an editor collaborator that adds, removes and
// re-links nodes in any order, and it may be reconstructed from storage with
// identities that were generated elsewhere. The node store is the single
// place that guarantees the two identity rules every other layer relies on:
//
//   - **Unique identity:** no two nodes share an ID.
//   - **Unique instance:** the same *model.Node is never held twice.
//
// Everything above the store (linking, traversal, compilation) can then
// treat an ID as a stable handle.
//
// # Ordering
//
// Nodes are returned in insertion order. Traversal is driven by links, not
// by store order, but a stable order keeps validation reports and catalog
// dumps deterministic.
//
// # Lifecycle and Usage
//
// The store is:
//  1. **Created** empty together with its graph.Program
//  2. **Mutated** by the program facade only (Add on create/load, Remove on delete)
//  3. **Queried** during linking and lowering through model.Resolver
//
// The store itself does not scrub references to removed nodes; that is the
// program's job because it spans every node.
package nodestore

import (
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/nodeid"
)

// Store is the interface for the ordered node collection of a program.
//
// # Typical Implementation
//
// See internal/inmemorystore for the in-memory implementation.
type Store interface {
	// Add inserts a node. It fails with model.ErrDuplicateNode when the ID is
	// taken or the same instance is already stored.
	Add(n *model.Node) error

	// Get looks up a node by ID.
	Get(id nodeid.ID) (*model.Node, bool)

	// Remove deletes a node and reports whether it was present.
	Remove(id nodeid.ID) bool

	// All returns the nodes in insertion order. The slice is a copy.
	All() []*model.Node

	// Len is the number of stored nodes.
	Len() int
}
