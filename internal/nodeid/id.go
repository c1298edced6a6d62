// internal/nodeid/id.go
package nodeid

// String serializes the identifier into its canonical hyphenated form.
func (id ID) String() string {
	return id.u.String()
}

// Short returns the first block of the canonical form. It is meant for log
// lines only and is not guaranteed to be unique.
func (id ID) Short() string {
	return id.String()[:8]
}

// Equal checks whether two identifiers are the same.
func (id ID) Equal(other ID) bool {
	return id.u == other.u
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
