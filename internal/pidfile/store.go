// Package pidfile implements a multi-PID file: a shared lock held at the same
// time by any number of independent processes, which becomes free again only
// once every holder has released it or died.
//
// Each Acquire or Release is one transaction. The transaction takes an
// exclusive advisory lock on a sidecar file, reads the holder set, drops
// holders whose process no longer exists, applies the change and replaces the
// file atomically before unlocking. Transactions on one path are therefore
// linearizable across processes. Nothing in this package waits for the
// holder set to change; callers poll State if they need that.
package pidfile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/multipid/internal/ctxutil"
	mperrors "github.com/mrz1836/multipid/internal/errors"
	"github.com/mrz1836/multipid/internal/lockfile"
	"github.com/mrz1836/multipid/internal/process"
)

// Store is a multi-PID file at a fixed path. A Store holds no open file
// between calls and is safe to share, but one process must not run two
// transactions on the same path at once.
type Store struct {
	path     string
	oracle   process.Oracle
	lockOpts lockfile.Options
}

// Option configures a Store.
type Option func(*Store)

// WithOracle replaces the liveness check used for pruning.
func WithOracle(o process.Oracle) Option {
	return func(s *Store) {
		s.oracle = o
	}
}

// WithLockOptions sets how long a transaction waits for a concurrent one.
func WithLockOptions(opts lockfile.Options) Option {
	return func(s *Store) {
		s.lockOpts = opts
	}
}

// New returns a Store backed by the file at path. The parent directory must
// already exist; the file itself is created by the first Acquire.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		oracle:   process.System{},
		lockOpts: lockfile.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// String identifies the store in messages.
func (s *Store) String() string {
	return "multipidfile " + s.path
}

// Acquire adds pid to the holder set and returns the set after the addition,
// which always contains pid. It fails with ErrDuplicateAcquire, leaving the
// file untouched, if pid is already a live holder.
func (s *Store) Acquire(ctx context.Context, pid int) (HolderSet, error) {
	var result HolderSet
	err := s.transact(ctx, pid, func(holders HolderSet) (HolderSet, error) {
		if holders.Contains(pid) {
			return nil, fmt.Errorf("failed to add pid %d to %s: %w", pid, s, mperrors.ErrDuplicateAcquire)
		}
		result = holders.with(pid)
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger(ctx).Debug().Int("pid", pid).Ints("holders", result).Msg("acquired")
	return result, nil
}

// Release removes pid from the holder set and returns the remaining holders.
// An empty result means the shared lock is now fully released. It fails with
// ErrMissingRelease, leaving the file untouched, if pid is not a holder,
// including when it was already pruned as dead.
func (s *Store) Release(ctx context.Context, pid int) (HolderSet, error) {
	var result HolderSet
	err := s.transact(ctx, pid, func(holders HolderSet) (HolderSet, error) {
		if !holders.Contains(pid) {
			return nil, fmt.Errorf("failed to remove pid %d from %s: %w", pid, s, mperrors.ErrMissingRelease)
		}
		result = holders.without(pid)
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger(ctx).Debug().Int("pid", pid).Ints("holders", result).Msg("released")
	return result, nil
}

// State returns the live holders without changing the file. Dead holders are
// left on disk for the next Acquire or Release to drop.
func (s *Store) State(ctx context.Context) (HolderSet, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	lock, err := lockfile.Acquire(ctx, s.path, s.lockOpts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	return s.load(ctx, 0)
}

// Held acquires pid, runs fn with the holder set after the acquisition, and
// releases pid afterwards even if fn fails. The release ignores cancellation
// of ctx so an interrupted caller does not leave its hold behind.
func (s *Store) Held(ctx context.Context, pid int, fn func(ctx context.Context, holders HolderSet) error) (err error) {
	holders, err := s.Acquire(ctx, pid)
	if err != nil {
		return err
	}

	defer func() {
		if _, releaseErr := s.Release(context.WithoutCancel(ctx), pid); releaseErr != nil {
			err = errors.Join(err, releaseErr)
		}
	}()

	return fn(ctx, holders)
}

// transact runs one locked read-prune-mutate-write cycle. mutate receives the
// pruned holder set; if it returns an error nothing is written.
func (s *Store) transact(ctx context.Context, pid int, mutate func(HolderSet) (HolderSet, error)) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if !process.Valid(pid) {
		return fmt.Errorf("%s: pid %d: %w", s, pid, mperrors.ErrInvalidPID)
	}

	lock, err := lockfile.Acquire(ctx, s.path, s.lockOpts)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	holders, err := s.load(ctx, pid)
	if err != nil {
		return err
	}

	next, err := mutate(holders)
	if err != nil {
		return err
	}

	if err := lockfile.AtomicWrite(s.path, Format(next)); err != nil {
		return mperrors.Wrapf(err, "failed to write %s", s)
	}
	return nil
}

// load reads and parses the file, then drops every holder other than keep
// whose process is gone. Must be called with the transaction lock held.
func (s *Store) load(ctx context.Context, keep int) (HolderSet, error) {
	data, err := lockfile.ReadState(s.path)
	if err != nil {
		return nil, err
	}

	holders, err := Parse(data)
	if err != nil {
		return nil, mperrors.Wrapf(err, "failed to parse %s", s)
	}

	live := make(HolderSet, 0, len(holders))
	for _, holder := range holders {
		if holder == keep || s.oracle.Alive(holder) {
			live = append(live, holder)
			continue
		}
		s.logger(ctx).Debug().Int("pid", holder).Msg("pruned dead holder")
	}
	return live, nil
}

func (s *Store) logger(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx).With().Str("component", "pidfile").Str("path", s.path).Logger()
	return &logger
}

// Acquire adds pid to the multi-PID file at path using the system liveness
// check and default lock timing.
func Acquire(ctx context.Context, path string, pid int) (HolderSet, error) {
	return New(path).Acquire(ctx, pid)
}

// Release removes pid from the multi-PID file at path using the system
// liveness check and default lock timing.
func Release(ctx context.Context, path string, pid int) (HolderSet, error) {
	return New(path).Release(ctx, pid)
}
