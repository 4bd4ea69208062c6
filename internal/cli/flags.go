package cli

import (
	stderrors "errors"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/multipid/internal/config"
	"github.com/mrz1836/multipid/internal/constants"
	"github.com/mrz1836/multipid/internal/errors"
	"github.com/mrz1836/multipid/internal/tui"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a general error, including storage failures.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = 2
	// ExitCallerError indicates a mismatched acquire/release pairing.
	ExitCallerError = 3
	// ExitWaitTimeout indicates the holder set did not empty in time.
	ExitWaitTimeout = 4
)

// Output format constants.
const (
	// OutputText prints one value per line.
	OutputText = tui.FormatText
	// OutputJSON prints JSON objects.
	OutputJSON = tui.FormatJSON
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// ConfigFile is an explicit config file merged over the global one.
	ConfigFile string
	// LockTimeout overrides lock.timeout when non-zero.
	LockTimeout time.Duration
}

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	pf.StringVar(&flags.ConfigFile, "config", "", "config file (default is the global "+constants.AppName+" config)")
	pf.DurationVar(&flags.LockTimeout, "lock-timeout", 0, "how long to wait for a concurrent transaction (overrides lock.timeout)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper so that MULTIPID_OUTPUT,
// MULTIPID_VERBOSE and MULTIPID_QUIET work as well.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command, flags *GlobalFlags) error {
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	flags.Output = v.GetString("output")
	flags.Verbose = v.GetBool("verbose")
	flags.Quiet = v.GetBool("quiet") && !flags.Verbose
	return nil
}

// overrides returns the config values set by flags.
func (f *GlobalFlags) overrides() *config.Config {
	return &config.Config{Lock: config.LockConfig{Timeout: f.LockTimeout}}
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// ExitCodeForError returns the process exit code for err.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var status *ExitStatusError
	if stderrors.As(err, &status) {
		return status.Code
	}

	if errors.IsExitCode2Error(err) || stderrors.Is(err, errors.ErrInvalidOutputFormat) {
		return ExitInvalidInput
	}

	switch kind := errors.KindOf(err); {
	case kind.IsCallerError():
		return ExitCallerError
	case kind == errors.KindInvalidInput:
		return ExitInvalidInput
	case kind == errors.KindWaitTimeout:
		return ExitWaitTimeout
	case kind != errors.KindOther:
		// Storage and cancellation errors may carry OS text such as
		// "invalid argument" that must not read as a usage error.
		return ExitError
	}

	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}
	return ExitError
}

// isInvalidInputError catches Cobra's built-in argument and flag errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts ",
		"requires at least",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
