package config

import (
	"os"
	"path/filepath"
)

// Extensions lists the config file formats viper can read, in lookup order
var Extensions = []string{"yml", "yaml", "json", "toml"}

// LocalConfigName is the base name of a project config file
const LocalConfigName = ".kfxc"

// FindLocalConfig finds local config file by walking up directories
func FindLocalConfig(dir string) string {
	for {
		for _, ext := range Extensions {
			path := filepath.Join(dir, LocalConfigName+"."+ext)

			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}

// FindGlobalConfig returns the first config file in the user's kfxc config
// directory, or "" when there is none.
func FindGlobalConfig() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return ""
	}

	globalDir := filepath.Join(base, "kfxc")
	for _, ext := range Extensions {
		path := filepath.Join(globalDir, "config."+ext)

		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
