package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/errors"
)

// GroveHomeDir returns the path to the grove home directory.
// This is typically ~/.grove on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GroveHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.GroveHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.grove/config.yaml on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GroveHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// DefaultDBPath returns the default database file location
// (~/.grove/grove.db).
func DefaultDBPath() (string, error) {
	dir, err := GroveHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.DBFileName), nil
}

// DefaultLogFilePath returns the default CLI log file location
// (~/.grove/logs/grove.log).
func DefaultLogFilePath() (string, error) {
	dir, err := GroveHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}
