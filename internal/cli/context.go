package cli

import (
	"context"
	"io"

	"github.com/mrz1836/multipid/internal/config"
	"github.com/mrz1836/multipid/internal/lockfile"
	"github.com/mrz1836/multipid/internal/tui"
)

// ExecutionContext holds what the root command resolved for its subcommands.
type ExecutionContext struct {
	// Config is the merged configuration.
	Config *config.Config

	// Format is the selected output format (text or json).
	Format string

	// Output renders results and errors in Format.
	Output tui.Output
}

// LockOptions returns the transaction lock settings from the config.
func (ec *ExecutionContext) LockOptions() lockfile.Options {
	return lockfile.Options{
		Timeout:       ec.Config.Lock.Timeout,
		RetryInterval: ec.Config.Lock.RetryInterval,
	}
}

// executionContextKey is the context key for ExecutionContext.
type executionContextKey struct{}

func withExecutionContext(ctx context.Context, ec *ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey{}, ec)
}

// executionContextFrom returns the ExecutionContext stored by the root
// command, or one built from defaults when a command runs without it.
func executionContextFrom(ctx context.Context, stdout, stderr io.Writer) *ExecutionContext {
	if ec, ok := ctx.Value(executionContextKey{}).(*ExecutionContext); ok {
		return ec
	}
	return &ExecutionContext{
		Config: config.DefaultConfig(),
		Format: OutputText,
		Output: tui.NewOutput(stdout, stderr, OutputText),
	}
}
