package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/vk/visualgrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Args is the CLI parsing structure and type of the parsed result. Global
// options may be given before or after the subcommand.
type Args struct {
	CatalogCmd *CatalogArgs `arg:"subcommand:catalog" help:"print the node catalog of the environment as YAML"`
	CheckCmd   *CheckArgs   `arg:"subcommand:check" help:"load an environment and compile an empty program in it"`
	DemoCmd    *DemoArgs    `arg:"subcommand:demo" help:"compile and run a sample program"`

	Env             string `arg:"--env,env:VISUALGRID_ENV" help:"path to a single .hcl file or a directory of .hcl files describing the environment"`
	LogFormat       string `arg:"--log-format" default:"json" help:"log output format: text or json"`
	LogLevel        string `arg:"--log-level" default:"info" help:"logging level: debug, info, warn or error"`
	HealthcheckPort int    `arg:"--healthcheck-port" default:"0" help:"port for the HTTP health check and metrics server, 0 is disabled"`
}

// CatalogArgs are the options of the catalog subcommand.
type CatalogArgs struct{}

// CheckArgs are the options of the check subcommand.
type CheckArgs struct{}

// DemoArgs are the options of the demo subcommand.
type DemoArgs struct {
	EditorURL string `arg:"--editor-url" help:"socket.io URL of an editor to mirror program output to"`
}

// Description is shown at the top of the help text.
func (Args) Description() string {
	return "visualgrid - build programs from a graph of typed nodes and run them.\n"
}

func (a *Args) command() string {
	switch {
	case a.CatalogCmd != nil:
		return app.CommandCatalog
	case a.CheckCmd != nil:
		return app.CommandCheck
	case a.DemoCmd != nil:
		return app.CommandDemo
	}
	return ""
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var parsed Args
	parser, err := arg.NewParser(arg.Config{Program: "visualgrid"}, &parsed)
	if err != nil {
		// programming error in the Args struct tags
		return nil, false, fmt.Errorf("cli config error: %w", err)
	}

	err = parser.Parse(args)
	if errors.Is(err, arg.ErrHelp) {
		parser.WriteHelp(output)
		return nil, true, nil
	}
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	command := parsed.command()
	if command == "" {
		slog.Debug("No command provided, printing usage and exiting.")
		parser.WriteHelp(output)
		return nil, true, nil
	}

	logFormat := strings.ToLower(parsed.LogFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(parsed.LogLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg := app.Config{
		Command:         command,
		EnvPath:         parsed.Env,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: parsed.HealthcheckPort,
	}
	if parsed.DemoCmd != nil {
		cfg.EditorURL = parsed.DemoCmd.EditorURL
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
