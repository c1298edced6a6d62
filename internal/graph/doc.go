// Package graph provides the Program facade: the editable node graph of a
// visual program together with its variables and environment.
//
// # Why Graph Package Exists
//
// Editing a program touches several collections at once. Removing a node
// has to scrub references to it from every other node; removing a variable
// has to clear every variable slot and entry parameter mapping naming it;
// creating a node has to consult the environment for allowed node types and
// data types. The Program type is the single place where those cross-cutting
// rules live, so editor collaborators never coordinate stores themselves.
//
// # Architecture: The Facade Pattern
//
//	┌─────────────────────────────────────┐
//	│           Program Facade            │
//	│  (CreateNode, Link, RemoveNode,     │
//	│   AddVariable, RemoveVariable, ...) │
//	└──────┬────────────┬───────────┬─────┘
//	       │            │           │
//	       ▼            ▼           ▼
//	┌──────────┐  ┌──────────┐  ┌─────────────┐
//	│   Node   │  │ Variable │  │ Environment │
//	│  Store   │  │  Store   │  │ (immutable) │
//	└──────────┘  └──────────┘  └─────────────┘
//
// **Node Store** (nodestore.Store): ordered nodes, unique identities.
//
// **Variable Store** (varstore.Store): case-insensitive typed variables,
// including the locked variables merged from the environment.
//
// **Environment** (environment.Environment): allowed node and data types,
// entry definitions and the registry node types are created from.
//
// # Traversal
//
// traversal.go walks statement chains in execution order. A statement's
// successor is its Next slot unless its type declares a branch successor,
// in which case the successor is computed (for If: the node where the two
// branches converge). FlattenExpressions, FindNextSharedNode and
// FlattenBranches are the building blocks the compiler and branching node
// types use to lower chains into runtime fragments.
//
// # Lowering
//
// A Lowerer (lower.go) implements model.LowerContext for one compilation. It
// memoizes lowered expressions and tracks the nodes currently being lowered,
// so a cycle that slipped past link-time checks (for example through a
// reconstructed program) fails with model.ErrCircularReference instead of
// recursing forever.
//
// # Thread-Safety
//
// Editing is single-threaded. Program methods must not be called
// concurrently with each other.
package graph
