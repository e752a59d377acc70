package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/grove/internal/config"
	"github.com/mrz1836/grove/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
// Access is protected by globalLoggerMu for thread safety.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root command's
// PersistentPreRunE has executed. Calling it before initialization will
// return a zero-value logger that discards all log output.
//
// This function is safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates and returns the root command for the grove CLI.
// This function-based approach avoids package-level globals, making the
// code more testable.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "grove",
		Short: "grove - hierarchical task tracking from the command line",
		Long: `grove keeps a tree of tasks in a local embedded store.

Tasks nest to any depth, carry a simple state machine
(NotStarted, InProgress, Blocked, Done), optional due dates and a full
state history. Subtrees can be exported to YAML, edited, and imported
back; the import reconciles the edits against the stored tree.`,
		Version: formatVersion(info),
		// Run displays help when the root command is invoked without
		// subcommands. This ensures PersistentPreRunE is called for flag
		// validation.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			setGlobalConfig(cfg)

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet, cfg.Logging)
			globalLoggerMu.Unlock()

			return nil
		},
		// SilenceUsage prevents printing usage on error
		// (we handle our own error messages)
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)

	AddAddCommand(cmd, flags)
	AddListCommand(cmd, flags)
	AddTreeCommand(cmd, flags)
	AddShowCommand(cmd, flags)
	AddMoveCommand(cmd, flags)
	AddStateCommand(cmd, flags)
	AddDoneCommand(cmd, flags)
	AddDueCommand(cmd, flags)
	AddDeleteCommand(cmd, flags)
	AddClearCommand(cmd, flags)
	AddSearchCommand(cmd, flags)
	AddOverdueCommand(cmd, flags)
	AddExportCommand(cmd, flags)
	AddImportCommand(cmd, flags)
	AddWatchCommand(cmd, flags)

	return cmd
}

// loadConfig loads the layered configuration with CLI flag overrides.
func loadConfig(flags *GlobalFlags) (*config.Config, error) {
	overrides := &config.Config{}
	if flags.DBPath != "" {
		overrides.DB.Path = flags.DBPath
	}
	return config.LoadWithOverrides(overrides)
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(ctx)
}
