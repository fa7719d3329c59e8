package config

import (
	"path/filepath"

	"github.com/jmgilman/go/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Loader handles configuration loading from various sources
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadForBuild loads configuration for a build. Later sources override
// earlier ones: defaults, global config, local config (or the file named by
// --config), then command-line flags. args are the positional build
// arguments; the source path (args[1]) anchors the local config search.
func (l *Loader) LoadForBuild(cmd *cobra.Command, args []string) (*Config, error) {
	l.setupViperDefaults()

	if err := l.loadGlobalConfig(); err != nil {
		return nil, err
	}

	explicit, _ := cmd.Flags().GetString("config")
	if explicit != "" {
		if err := mergeConfigFile(explicit); err != nil {
			return nil, err
		}
	} else if err := l.loadLocalConfig(args); err != nil {
		return nil, err
	}

	l.bindCommandFlags(cmd)

	return Load()
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("compiler_path", DefaultCompilerPath)
	viper.SetDefault("compiler_args", []string{})
	viper.SetDefault("compiler_timeout", "")
	viper.SetDefault("force", DefaultForce)
	viper.SetDefault("verbose", DefaultVerbose)
	viper.SetDefault("log_format", DefaultLogFormat)
}

// loadGlobalConfig loads global configuration from the user config directory
func (l *Loader) loadGlobalConfig() error {
	globalPath := FindGlobalConfig()
	if globalPath == "" {
		return nil
	}

	return mergeConfigFile(globalPath)
}

// loadLocalConfig loads local configuration from the source's directory or
// one of its parents
func (l *Loader) loadLocalConfig(args []string) error {
	if len(args) < 2 {
		return nil
	}

	absSource, err := filepath.Abs(args[1])
	if err != nil {
		return nil // the build reports the bad source path itself
	}

	localPath := FindLocalConfig(filepath.Dir(absSource))
	if localPath == "" {
		return nil
	}

	return mergeConfigFile(localPath)
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	for _, name := range []string{"verbose", "force", "compiler"} {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}

		key := name
		if name == "compiler" {
			key = "compiler_path"
		}

		_ = viper.BindPFlag(key, flag)
	}
}

func mergeConfigFile(path string) error {
	viper.SetConfigFile(path)

	if err := viper.MergeInConfig(); err != nil {
		return errors.Wrapf(err, errors.CodeSchemaFailed, "cannot load config file %s", path)
	}

	return nil
}
