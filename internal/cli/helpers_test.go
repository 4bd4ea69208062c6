package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/mrz1836/multipid/internal/constants"
)

// cliResult captures one CLI invocation.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

func (r cliResult) code() int {
	return ExitCodeForError(r.err)
}

// runCLI executes the root command in-process with an isolated global
// config directory.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	t.Setenv(constants.HomeEnvVar, t.TempDir())
	return runCLIWithEnv(t, args...)
}

// runCLIWithEnv is runCLI without resetting MULTIPID_HOME.
func runCLIWithEnv(t *testing.T, args ...string) cliResult {
	t.Helper()

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{Version: "test"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := executeAndReport(context.Background(), cmd, flags)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func tempStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "build.pids")
}
