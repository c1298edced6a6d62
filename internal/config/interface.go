package config

import (
	"context"
)

// Loader is the interface for a format-specific environment loader.
type Loader interface {
	// Load reads configuration from the given paths and translates it into
	// the format-agnostic model. Files found under several paths are merged.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
