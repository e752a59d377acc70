// Package main provides the entry point for the grove CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/grove/internal/cli"
	"github.com/mrz1836/grove/internal/signal"
)

// Build information, set at build time via ldflags.
var (
	version = "" //nolint:gochecknoglobals // Set via ldflags
	commit  = "" //nolint:gochecknoglobals // Set via ldflags
	date    = "" //nolint:gochecknoglobals // Set via ldflags
)

func main() {
	h := signal.NewHandler(context.Background())
	defer h.Stop()

	err := cli.Execute(h.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()
	if err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
