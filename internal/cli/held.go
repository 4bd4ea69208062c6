package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/multipid/internal/errors"
	"github.com/mrz1836/multipid/internal/pidfile"
	"github.com/mrz1836/multipid/internal/signal"
)

// childWaitDelay is how long an interrupted child gets to exit before it is killed.
const childWaitDelay = 10 * time.Second

// exitCommandNotFound is the shell status for a command that cannot be run.
const exitCommandNotFound = 127

// AddHeldCommand adds the held command.
func AddHeldCommand(root *cobra.Command) {
	var pid int

	cmd := &cobra.Command{
		Use:   "held PATH -- COMMAND [ARGS...]",
		Short: "Run a command while holding the lock",
		Long: `Acquire the multi-PID file at PATH, run COMMAND, and release afterwards,
even if COMMAND fails or multipid is interrupted. The exit status of COMMAND
becomes the exit status of multipid.

The lock is held on behalf of this multipid process unless --pid is given.
SIGINT and SIGTERM are passed on to COMMAND and the lock is released once it
exits. MULTIPID_HOLDERS is set to the holder set seen at acquire time.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeld(cmd, args, pid)
		},
	}
	cmd.Flags().IntVar(&pid, "pid", 0, "hold on behalf of this PID (default: this multipid process)")

	root.AddCommand(cmd)
}

func runHeld(cmd *cobra.Command, args []string, pid int) error {
	if len(args) < 2 {
		return errors.NewExitCode2Error(fmt.Errorf("%w: usage: multipid held PATH -- COMMAND [ARGS...]", errors.ErrCommandRequired))
	}
	if pid == 0 {
		pid = os.Getpid()
	}

	ec := executionContextFrom(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	h := signal.NewHandler(cmd.Context())
	defer h.Stop()

	store := pidfile.New(args[0], pidfile.WithLockOptions(ec.LockOptions()))
	err := store.Held(h.Context(), pid, func(ctx context.Context, holders pidfile.HolderSet) error {
		zerolog.Ctx(ctx).Debug().
			Str("path", store.Path()).
			Ints("holders", holders.PIDs()).
			Strs("command", args[1:]).
			Msg("running held command")
		return runChild(ctx, cmd, args[1:], holders)
	})

	if code := h.ExitCode(); code != 0 {
		return &ExitStatusError{Code: code, Err: stderrors.Join(fmt.Errorf("interrupted by %v", h.Received()), err)}
	}
	return err
}

// runChild runs argv with the command's stdio and maps its exit status onto
// an ExitStatusError.
func runChild(ctx context.Context, cmd *cobra.Command, argv []string, holders pidfile.HolderSet) error {
	c := exec.CommandContext(ctx, argv[0], argv[1:]...) //#nosec G204 -- running the user's command is the point
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	c.Env = append(os.Environ(), "MULTIPID_HOLDERS="+holders.Fields())
	c.Cancel = func() error {
		return c.Process.Signal(os.Interrupt)
	}
	c.WaitDelay = childWaitDelay

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			code = 128 + int(ws.Signal())
		}
		return &ExitStatusError{Code: code}
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return &ExitStatusError{Code: exitCommandNotFound, Err: err}
	}
	return fmt.Errorf("failed to run %s: %w", argv[0], err)
}
