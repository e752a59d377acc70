package cli

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/mrz1836/grove/internal/clock"
	"github.com/mrz1836/grove/internal/config"
	"github.com/mrz1836/grove/internal/errors"
	"github.com/mrz1836/grove/internal/flock"
	"github.com/mrz1836/grove/internal/store"
	"github.com/mrz1836/grove/internal/task"
)

// globalConfig stores the loaded configuration for use by subcommands.
// This is set during PersistentPreRunE, like the global logger.
var (
	globalConfig   *config.Config //nolint:gochecknoglobals // Set once in PersistentPreRunE
	globalConfigMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalConfig
)

func setGlobalConfig(cfg *config.Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

func getGlobalConfig() *config.Config {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// services bundles the store and the command/query services a subcommand
// needs. Callers must Close it when done.
type services struct {
	store    *store.SQLiteStore
	commands *task.CommandService
	queries  *task.QueryService
	lock     *flock.Guard
}

// openServices opens the task store at the configured location and wires
// the command and query services over it. An advisory lock file next to
// the database keeps concurrent grove processes from interleaving
// multi-statement operations.
func openServices() (*services, error) {
	cfg := getGlobalConfig()
	if cfg == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "configuration not loaded")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}

	guard, err := flock.Acquire(cfg.DB.Path + ".lock")
	if err != nil {
		return nil, err
	}

	st, err := store.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		guard.Release()
		return nil, err
	}

	logger := GetLogger()
	clk := clock.RealClock{}
	return &services{
		store:    st,
		commands: task.NewCommandService(st, clk, logger),
		queries:  task.NewQueryService(st, clk, logger),
		lock:     guard,
	}, nil
}

// Close releases the underlying store and the advisory lock.
func (s *services) Close() {
	_ = s.store.Close()
	s.lock.Release()
}
