package model

import "errors"

// Error kinds returned by model, graph, environment and compiler operations.
// Callers match them with errors.Is; the wrapping error carries the details.
var (
	ErrDuplicateName        = errors.New("duplicate name")
	ErrInvalidDefault       = errors.New("invalid default value")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrUnknownProperty      = errors.New("unknown property")
	ErrKindMismatch         = errors.New("kind mismatch")
	ErrUnlinkable           = errors.New("property cannot be linked")
	ErrCircularReference    = errors.New("circular reference")
	ErrBrokenLink           = errors.New("broken link")
	ErrTypeConflict         = errors.New("type conflict")
	ErrAmbiguousConstructor = errors.New("ambiguous constructor")
	ErrAlreadyConfigured    = errors.New("already configured")

	ErrUnknownEntry    = errors.New("unknown entry")
	ErrUnknownVariable = errors.New("unknown variable")
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrNotAllowed      = errors.New("not allowed by environment")
	ErrDuplicateNode   = errors.New("duplicate node")
)
