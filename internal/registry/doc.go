// Package registry provides the central table of node types.
//
// The Registry maps the names used by editors and environment files (e.g.
// "maths.operation") to the model.NodeType values that describe a node's
// properties and how it is lowered. Node packs under modules/ register their
// types through the Module interface; nothing is discovered by reflection.
//
// During application startup, the registry is populated and then validated
// so a malformed node type fails fast instead of surfacing while a user is
// editing a program.
package registry
