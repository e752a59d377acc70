package config

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/errors"
)

// newViperInstance creates a new Viper instance with standard grove
// configuration: environment variable prefix (GROVE_), key replacer, and
// defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	// DB defaults. Path resolution is best-effort here; Validate catches
	// the case where no home directory is available and no path was set.
	dbPath, _ := DefaultDBPath()
	v.SetDefault("db.path", dbPath)

	// Logging defaults
	logFile, _ := DefaultLogFilePath()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", logFile)
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 30)
}

// isConfigNotFoundError returns true if the error is a viper config file not
// found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// Load reads configuration from all available sources with proper
// precedence. Configuration is loaded in the following order (highest
// precedence first):
//  1. Environment variables (GROVE_* prefix)
//  2. Global config (~/.grove/config.yaml)
//  3. Built-in defaults
//
// The function returns an error only for actual configuration problems,
// not for a missing config file (which is the common case on first run).
func Load() (*Config, error) {
	v := newViperInstance()
	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	return unmarshalAndValidate(v)
}

// LoadWithOverrides loads configuration and applies CLI flag overrides,
// which have the highest precedence. Only non-zero override values are
// applied.
func LoadWithOverrides(overrides *Config) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		applyOverrides(cfg, overrides)
	}
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path for testing.
func LoadFromPath(configPath string) (*Config, error) {
	v := newViperInstance()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read config: %s", configPath)
		}
	}
	return unmarshalAndValidate(v)
}

// loadGlobalConfig attempts to load the global config file
// (~/.grove/config.yaml). Returns nil if the file doesn't exist or the home
// directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.DB.Path != "" {
		cfg.DB.Path = overrides.DB.Path
	}
	if overrides.Logging.Level != "" {
		cfg.Logging.Level = overrides.Logging.Level
	}
	if overrides.Logging.File != "" {
		cfg.Logging.File = overrides.Logging.File
	}
	if overrides.Logging.MaxSizeMB != 0 {
		cfg.Logging.MaxSizeMB = overrides.Logging.MaxSizeMB
	}
	if overrides.Logging.MaxBackups != 0 {
		cfg.Logging.MaxBackups = overrides.Logging.MaxBackups
	}
	if overrides.Logging.MaxAgeDays != 0 {
		cfg.Logging.MaxAgeDays = overrides.Logging.MaxAgeDays
	}
}
