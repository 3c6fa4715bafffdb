package structarg

import (
	"fmt"
	"io"
	"os"
)

type parserConfig struct {
	prog        string
	description string
	epilog      string
	version     string
	envPrefix   string
	exitOnError bool
	stdout      io.Writer
	stderr      io.Writer
	exit        func(code int)
}

func newParserConfig() *parserConfig {
	return &parserConfig{
		exitOnError: true,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		exit:        os.Exit,
	}
}

// ConfigureParserFunc is a functional option applied at parser construction.
type ConfigureParserFunc func(cfg *parserConfig, err *error)

// WithProg sets the program name shown in usage and error output. Defaults
// to the executable's base name.
func WithProg(prog string) ConfigureParserFunc {
	return func(cfg *parserConfig, err *error) {
		if prog == "" {
			*err = fmt.Errorf("program name cannot be empty")
			return
		}
		cfg.prog = prog
	}
}

// WithDescription sets the text shown below the usage line in help output.
func WithDescription(description string) ConfigureParserFunc {
	return func(cfg *parserConfig, _ *error) {
		cfg.description = description
	}
}

// WithEpilog sets the text shown at the end of help output.
func WithEpilog(epilog string) ConfigureParserFunc {
	return func(cfg *parserConfig, _ *error) {
		cfg.epilog = epilog
	}
}

// WithVersion enables a -v/--version flag printing the given string.
func WithVersion(version string) ConfigureParserFunc {
	return func(cfg *parserConfig, err *error) {
		if version == "" {
			*err = fmt.Errorf("version cannot be empty")
			return
		}
		cfg.version = version
	}
}

// WithEnvPrefix enables environment variable fallback for top-level flags.
// A flag absent from argv whose variable PREFIX_<FLAG_NAME> is set receives
// the variable's value.
func WithEnvPrefix(prefix string) ConfigureParserFunc {
	return func(cfg *parserConfig, err *error) {
		if prefix == "" {
			*err = fmt.Errorf("environment prefix cannot be empty")
			return
		}
		cfg.envPrefix = prefix
	}
}

// WithExitOnError controls failure handling. When true (the default) parse
// failures print to stderr and exit with status 2, and help/version print
// and exit with status 0. When false, Parse returns the error instead.
func WithExitOnError(exit bool) ConfigureParserFunc {
	return func(cfg *parserConfig, _ *error) {
		cfg.exitOnError = exit
	}
}

// WithStdout redirects help and version output.
func WithStdout(w io.Writer) ConfigureParserFunc {
	return func(cfg *parserConfig, _ *error) {
		cfg.stdout = w
	}
}

// WithStderr redirects usage and error output.
func WithStderr(w io.Writer) ConfigureParserFunc {
	return func(cfg *parserConfig, _ *error) {
		cfg.stderr = w
	}
}
