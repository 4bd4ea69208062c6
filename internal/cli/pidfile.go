package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/multipid/internal/errors"
	"github.com/mrz1836/multipid/internal/pidfile"
)

// AddAcquireCommand adds the acquire command.
func AddAcquireCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "acquire PATH [PID]",
		Short: "Add a PID to the holder set and print the resulting set",
		Long: `Add PID to the multi-PID file at PATH, pruning holders that are no longer
running, and print the resulting set one PID per line.

PID defaults to the parent process, normally the shell script calling
multipid. If the output is only your own PID, you are the first user.

Acquiring a PID that is already a holder fails with exit status 3.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHolderOp(cmd, args, (*pidfile.Store).Acquire)
		},
	})
}

// AddReleaseCommand adds the release command.
func AddReleaseCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "release PATH [PID]",
		Short: "Remove a PID from the holder set and print the remaining set",
		Long: `Remove PID from the multi-PID file at PATH, pruning holders that are no
longer running, and print the remaining set one PID per line.

PID defaults to the parent process. Empty output means you were the last user.

Releasing a PID that is not a holder fails with exit status 3.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHolderOp(cmd, args, (*pidfile.Store).Release)
		},
	})
}

// AddStateCommand adds the state command.
func AddStateCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "state PATH",
		Short: "Print the live holders without changing the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ec := executionContextFrom(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())

			store := pidfile.New(args[0], pidfile.WithLockOptions(ec.LockOptions()))
			set, err := store.State(ctx)
			if err != nil {
				return err
			}
			return ec.Output.Holders(store.Path(), set.PIDs())
		},
	})
}

type holderOp func(*pidfile.Store, context.Context, int) (pidfile.HolderSet, error)

func runHolderOp(cmd *cobra.Command, args []string, op holderOp) error {
	ctx := cmd.Context()
	ec := executionContextFrom(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())

	pid, err := pidArg(args, 1, os.Getppid())
	if err != nil {
		return err
	}

	store := pidfile.New(args[0], pidfile.WithLockOptions(ec.LockOptions()))
	set, err := op(store, ctx, pid)
	if err != nil {
		return err
	}
	return ec.Output.Holders(store.Path(), set.PIDs())
}

// pidArg parses args[i] as a PID, or returns def when it is absent.
// Range checks are left to the store so that every entry point reports
// a non-positive PID the same way.
func pidArg(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	pid, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, errors.NewExitCode2Error(
			fmt.Errorf("%w: pid %q is not an integer", errors.ErrInvalidArgument, args[i]))
	}
	return pid, nil
}
