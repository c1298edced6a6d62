// Package model defines the in-memory representation of a visual program.
//
// A program is a set of nodes. Each node is an instance of a registered
// NodeType and carries typed properties. Properties that hold other nodes
// are references rather than pointers: an ExpressionRef, StatementRef or
// VariableRef stores an identity (or a literal) and is resolved through a
// Resolver on demand. Consequently nodes never own each other and removing a
// node only requires scrubbing the references that point at it.
//
// The package enforces the structural rules that are local to a node:
// exact-type linking, kind checks and acyclicity of same-kind links. Rules
// that span the whole program (identity uniqueness, variable cascades) are
// enforced by the graph package.
package model
