package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/spf13/viper"

	"github.com/Norgate-AV/kfxc/internal/logging"
)

// Default configuration values
const (
	DefaultCompilerPath = ""
	DefaultVerbose      = false
	DefaultForce        = false
	DefaultLogFormat    = logging.FormatText
)

// Holds the configuration options for kfxc
type Config struct {
	// Path to an external effect compiler. Empty selects the built-in one.
	CompilerPath string

	// Extra arguments passed to the external compiler before the platform
	// token and source path
	CompilerArgs []string

	// Maximum run time of the external compiler (e.g. "2m"). Empty means
	// no limit.
	CompilerTimeout string

	// Always compile, ignoring any cached artifact
	Force bool

	// Enable verbose output
	Verbose bool

	// Log output format: text or json
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		CompilerPath:    viper.GetString("compiler_path"),
		CompilerArgs:    viper.GetStringSlice("compiler_args"),
		CompilerTimeout: viper.GetString("compiler_timeout"),
		Force:           viper.GetBool("force"),
		Verbose:         viper.GetBool("verbose"),
		LogFormat:       viper.GetString("log_format"),
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UsesBuiltin reports whether the in-process compiler should be used
func (c *Config) UsesBuiltin() bool {
	return c.CompilerPath == ""
}

func (c *Config) Validate() error {
	// Bare executable names are left for PATH lookup
	if c.CompilerPath != "" && strings.ContainsRune(c.CompilerPath, filepath.Separator) {
		if abs, err := filepath.Abs(c.CompilerPath); err == nil {
			c.CompilerPath = abs
		}
	}

	if c.CompilerTimeout != "" {
		d, err := time.ParseDuration(c.CompilerTimeout)
		if err != nil {
			return errors.Wrapf(err, errors.CodeSchemaFailed, "invalid compiler timeout %q", c.CompilerTimeout)
		}

		if d <= 0 {
			return errors.Newf(errors.CodeSchemaFailed, "compiler timeout must be positive, got %s", c.CompilerTimeout)
		}
	}

	c.LogFormat = strings.ToLower(c.LogFormat)
	if c.LogFormat != logging.FormatText && c.LogFormat != logging.FormatJSON {
		return errors.Newf(errors.CodeSchemaFailed, "invalid log format %q (want %s or %s)", c.LogFormat, logging.FormatText, logging.FormatJSON)
	}

	return nil
}
