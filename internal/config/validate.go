package config

import (
	"github.com/rs/zerolog"

	"github.com/mrz1836/grove/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - DB path must not be empty
//   - Logging level must be a known zerolog level
//   - Logging rotation limits must not be negative
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.Wrap(errors.ErrInvalidConfig, "config is nil")
	}

	if cfg.DB.Path == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "db.path must not be empty")
	}

	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"logging.level %q is not a valid level", cfg.Logging.Level)
	}

	if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxBackups < 0 || cfg.Logging.MaxAgeDays < 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "logging rotation limits must not be negative")
	}

	return nil
}
