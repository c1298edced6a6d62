package app

import (
	"errors"
	"fmt"
)

// Commands understood by App.Run.
const (
	CommandCatalog = "catalog"
	CommandCheck   = "check"
	CommandDemo    = "demo"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command string
	EnvPath string // hcl files describing the environment

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// EditorURL, when set, mirrors demo output to an editor over socket.io.
	EditorURL string
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandCatalog, CommandDemo:
	case CommandCheck:
		if cfg.EnvPath == "" {
			return nil, errors.New("EnvPath is required by the check command and cannot be empty")
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.HealthcheckPort < 0 {
		return nil, errors.New("HealthcheckPort cannot be negative")
	}
	return &cfg, nil
}
