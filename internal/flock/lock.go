package flock

import (
	"fmt"
	"os"
)

// Guard holds an acquired lock file until Release is called.
type Guard struct {
	file *os.File
}

// Acquire creates (if needed) and exclusively locks the file at path.
// It fails immediately when another process holds the lock.
func Acquire(path string) (*Guard, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //nolint:gosec // Lock file path is derived from the configured db path
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}

	if err := Exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to lock %s (is another grove process running?): %w", path, err)
	}

	return &Guard{file: f}, nil
}

// Release unlocks and closes the lock file. Safe to call on a nil guard.
func (g *Guard) Release() {
	if g == nil || g.file == nil {
		return
	}
	_ = Unlock(g.file.Fd())
	_ = g.file.Close()
	g.file = nil
}
