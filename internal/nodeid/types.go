// internal/nodeid/types.go
package nodeid

import "github.com/google/uuid"

// ID is the unique identifier of a node within a program.
type ID struct {
	u uuid.UUID
}

// Nil is the zero identifier. It never names a node.
var Nil = ID{}

// New returns a fresh random identifier.
func New() ID {
	return ID{u: uuid.New()}
}

// FromUUID wraps an existing UUID.
func FromUUID(u uuid.UUID) ID {
	return ID{u: u}
}

// IsNil reports whether the identifier is the zero value.
func (id ID) IsNil() bool {
	return id.u == uuid.Nil
}

// UUID returns the underlying UUID.
func (id ID) UUID() uuid.UUID {
	return id.u
}
