package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/multipid/internal/clock"
	"github.com/mrz1836/multipid/internal/errors"
	"github.com/mrz1836/multipid/internal/pidfile"
	"github.com/mrz1836/multipid/internal/signal"
)

// holderStater is the part of pidfile.Store that wait polls.
type holderStater interface {
	State(ctx context.Context) (pidfile.HolderSet, error)
}

// waitOptions controls waitEmpty.
type waitOptions struct {
	Interval time.Duration
	Timeout  time.Duration // zero waits forever
	Clock    clock.Clock
}

// AddWaitCommand adds the wait command.
func AddWaitCommand(root *cobra.Command) {
	var interval, timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait PATH",
		Short: "Block until the holder set is empty",
		Long: `Poll the multi-PID file at PATH until no live process holds it.
Holders that died are pruned on every poll, so a crashed holder does not
block forever. Exits with status 4 if --timeout passes first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ec := executionContextFrom(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())

			opts := waitOptions{
				Interval: ec.Config.Wait.Interval,
				Timeout:  ec.Config.Wait.Timeout,
				Clock:    clock.RealClock{},
			}
			if cmd.Flags().Changed("interval") {
				opts.Interval = interval
			}
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}
			if opts.Interval <= 0 || opts.Timeout < 0 {
				return errors.NewExitCode2Error(fmt.Errorf("%w: --interval must be positive and --timeout not negative",
					errors.ErrInvalidArgument))
			}

			h := signal.NewHandler(ctx)
			defer h.Stop()

			store := pidfile.New(args[0], pidfile.WithLockOptions(ec.LockOptions()))
			set, err := waitEmpty(h.Context(), store, opts)
			if code := h.ExitCode(); code != 0 {
				return &ExitStatusError{Code: code, Err: fmt.Errorf("interrupted by %v", h.Received())}
			}
			if err != nil {
				return err
			}
			return ec.Output.Holders(store.Path(), set.PIDs())
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "polling interval (overrides wait.interval)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long, 0 waits forever (overrides wait.timeout)")

	root.AddCommand(cmd)
}

// waitEmpty polls s until its holder set is empty, the timeout passes, or
// ctx ends. Transaction errors end the wait immediately.
func waitEmpty(ctx context.Context, s holderStater, opts waitOptions) (pidfile.HolderSet, error) {
	logger := zerolog.Ctx(ctx)

	var deadline time.Time
	if opts.Timeout > 0 {
		deadline = opts.Clock.Now().Add(opts.Timeout)
	}

	for {
		set, err := s.State(ctx)
		if err != nil {
			return nil, err
		}
		if set.Empty() {
			return set, nil
		}
		if !deadline.IsZero() && !opts.Clock.Now().Before(deadline) {
			return set, fmt.Errorf("%v still held by [%s] after %s: %w", s, set.Fields(), opts.Timeout, errors.ErrWaitTimeout)
		}

		logger.Debug().Str("holders", set.Fields()).Dur("interval", opts.Interval).Msg("waiting for holders")

		select {
		case <-ctx.Done():
			return set, ctx.Err()
		case <-opts.Clock.After(opts.Interval):
		}
	}
}
