package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/multipid/internal/constants"
	"github.com/mrz1836/multipid/internal/errors"
)

// GlobalConfigDir returns the directory holding the global config file.
// $MULTIPID_HOME wins; otherwise it is the multipid directory under the
// user config directory (~/.config/multipid on Linux).
func GlobalConfigDir() (string, error) {
	if home := os.Getenv(constants.HomeEnvVar); home != "" {
		return home, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(dir, constants.AppName), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}
