// Package main provides the entry point for the multipid CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/multipid/internal/cli"
)

// Set at build time via ldflags.
var (
	version = "" //nolint:gochecknoglobals // ldflags target
	commit  = "" //nolint:gochecknoglobals // ldflags target
	date    = "" //nolint:gochecknoglobals // ldflags target
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	os.Exit(cli.ExitCodeForError(err))
}
