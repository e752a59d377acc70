// Package config provides configuration management for grove with layered
// precedence.
//
// Configuration sources are loaded in the following order (highest precedence
// first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (GROVE_* prefix)
//  3. Global config (~/.grove/config.yaml)
//  4. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

// Config is the root configuration structure for grove.
type Config struct {
	// DB contains settings for the task document store.
	DB DBConfig `yaml:"db" mapstructure:"db"`

	// Logging contains settings for structured log output.
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// DBConfig contains settings for the task document store.
type DBConfig struct {
	// Path is the location of the SQLite database file.
	// Default: ~/.grove/grove.db
	Path string `yaml:"path" mapstructure:"path"`
}

// LoggingConfig contains settings for structured log output.
// Log files are rotated by size and age.
type LoggingConfig struct {
	// Level is the minimum log level ("trace", "debug", "info", "warn",
	// "error"). Default: "info"
	Level string `yaml:"level" mapstructure:"level"`

	// File is the log file location. Empty disables file logging.
	// Default: ~/.grove/logs/grove.log
	File string `yaml:"file" mapstructure:"file"`

	// MaxSizeMB is the maximum size of the log file before rotation.
	// Default: 10
	MaxSizeMB int `yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated log files to keep.
	// Default: 3
	MaxBackups int `yaml:"max_backups" mapstructure:"max_backups"`

	// MaxAgeDays is the maximum age of a rotated log file in days.
	// Default: 30
	MaxAgeDays int `yaml:"max_age_days" mapstructure:"max_age_days"`
}
