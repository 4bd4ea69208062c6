// Package cli provides the command-line interface for multipid.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/multipid/internal/config"
	"github.com/mrz1836/multipid/internal/errors"
	"github.com/mrz1836/multipid/internal/tui"
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
// It is set during PersistentPreRunE and accessed via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger. Before the root command's
// PersistentPreRunE has run it returns a zero-value logger that discards
// everything. Safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates the root command for the multipid CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "multipid",
		Short: "A shared lock held by many processes at once",
		Long: `multipid maintains a multi-PID file: a shared lock held by many cooperating
processes at once. Each process adds its PID when it starts using a shared
resource and removes it when done. A process learns it was the first user when
acquire returns only its own PID, and the last user when release returns an
empty set. Holders that died without releasing are pruned automatically.

Every transaction runs under an exclusive file lock and replaces the state
file atomically, so concurrent processes never lose each other's updates.

Examples:
  multipid acquire /run/lock/build.pids
  multipid release /run/lock/build.pids
  multipid held /run/lock/build.pids -- make test
  multipid wait /run/lock/build.pids --timeout 10m`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupExecution(cmd, v, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddAcquireCommand(cmd)
	AddReleaseCommand(cmd)
	AddStateCommand(cmd)
	AddHeldCommand(cmd)
	AddWaitCommand(cmd)
	AddSemaphoreCommand(cmd)
	AddConfigCommand(cmd)

	return cmd
}

// setupExecution validates global flags, loads configuration, initializes
// the logger and stores everything on the command context.
func setupExecution(cmd *cobra.Command, v *viper.Viper, flags *GlobalFlags) error {
	if err := BindGlobalFlags(v, cmd, flags); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if !IsValidOutputFormat(flags.Output) {
		return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
	}

	ctx := cmd.Context()
	cfg, err := config.LoadWithOverrides(ctx, flags.ConfigFile, flags.overrides())
	if err != nil {
		return err
	}

	logger := InitLogger(flags.Verbose, flags.Quiet, cfg.Log, cmd.ErrOrStderr())
	globalLoggerMu.Lock()
	globalLogger = logger
	globalLoggerMu.Unlock()

	ec := &ExecutionContext{
		Config: cfg,
		Format: flags.Output,
		Output: tui.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), flags.Output),
	}
	cmd.SetContext(withExecutionContext(logger.WithContext(ctx), ec))
	return nil
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

// Execute runs the root command and reports any error on stderr in the
// selected output format. The returned error is for ExitCodeForError.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	defer CloseLogFile()
	return executeAndReport(ctx, cmd, flags)
}

func executeAndReport(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags) error {
	executed, err := cmd.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}

	var status *ExitStatusError
	if stderrors.As(err, &status) && status.Err == nil {
		return err
	}

	format := flags.Output
	if !IsValidOutputFormat(format) {
		format = OutputText
	}
	out := tui.NewOutput(executed.OutOrStdout(), executed.ErrOrStderr(), format)
	if c := executed.Context(); c != nil {
		if ec, ok := c.Value(executionContextKey{}).(*ExecutionContext); ok {
			out = ec.Output
		}
	}
	out.Error(err)
	return err
}
