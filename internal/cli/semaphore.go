package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/multipid/internal/semaphore"
)

// AddSemaphoreCommand adds the semaphore command and its subcommands.
func AddSemaphoreCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "semaphore",
		Short: "Counting semaphore file operations",
		Long: `A counting semaphore file is the anonymous sibling of the multi-PID file:
it tracks how many users hold it, not who they are. It never forgets a
crashed user, so prefer acquire/release unless holders cannot be identified
by PID.`,
	}

	cmd.AddCommand(newSemaphoreOpCmd("test-increment PATH",
		"Increment and print the value from before (0 means first user)",
		(*semaphore.Semaphore).TestIncrement))
	cmd.AddCommand(newSemaphoreOpCmd("decrement-test PATH",
		"Decrement and print the new value (0 means last user)",
		(*semaphore.Semaphore).DecrementTest))
	cmd.AddCommand(newSemaphoreOpCmd("state PATH",
		"Print the current value",
		(*semaphore.Semaphore).State))

	root.AddCommand(cmd)
}

type semaphoreOp func(*semaphore.Semaphore, context.Context) (int, error)

func newSemaphoreOpCmd(use, short string, op semaphoreOp) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ec := executionContextFrom(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())

			sem := semaphore.New(args[0], semaphore.WithLockOptions(ec.LockOptions()))
			value, err := op(sem, ctx)
			if err != nil {
				return err
			}
			return ec.Output.Count(sem.Path(), value)
		},
	}
}
