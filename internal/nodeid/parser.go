// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Parse creates an ID from its canonical string representation. Surrounding
// whitespace is ignored; the nil UUID is rejected because it cannot name a node.
func Parse(rawID string) (ID, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return Nil, fmt.Errorf("identifier cannot be empty")
	}

	u, err := uuid.Parse(rawID)
	if err != nil {
		return Nil, fmt.Errorf("invalid node identifier %q: %w", rawID, err)
	}
	if u == uuid.Nil {
		return Nil, fmt.Errorf("identifier %q is the nil identifier", rawID)
	}

	return ID{u: u}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixtures.
func MustParse(rawID string) ID {
	id, err := Parse(rawID)
	if err != nil {
		panic(err)
	}
	return id
}
