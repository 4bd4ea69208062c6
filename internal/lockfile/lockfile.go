// Package lockfile implements the transaction discipline shared by the
// holder set store and the semaphore: an exclusive advisory lock on a
// sidecar file held for the whole read-modify-write, and atomic replacement
// of the state file through a temporary sibling.
//
// The lock lives on "<state>.lock" rather than on the state file itself
// because the state file is replaced by rename; a lock on the old inode would
// not exclude a process that opened the new one.
package lockfile

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/multipid/internal/clock"
	"github.com/mrz1836/multipid/internal/constants"
	"github.com/mrz1836/multipid/internal/ctxutil"
	mperrors "github.com/mrz1836/multipid/internal/errors"
	"github.com/mrz1836/multipid/internal/flock"
)

// Options controls how long Acquire keeps retrying a contended lock.
type Options struct {
	// Timeout bounds the total time spent waiting for the lock.
	Timeout time.Duration
	// RetryInterval is the pause between attempts.
	RetryInterval time.Duration
	// Clock drives the deadline and the pauses. Defaults to the system clock.
	Clock clock.Clock
}

// DefaultOptions returns the built-in lock timing.
func DefaultOptions() Options {
	return Options{
		Timeout:       constants.DefaultLockTimeout,
		RetryInterval: constants.DefaultLockRetryInterval,
		Clock:         clock.RealClock{},
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = def.RetryInterval
	}
	if o.Clock == nil {
		o.Clock = def.Clock
	}
	return o
}

// Lock is a held transaction lock. It is not reentrant: taking a second Lock
// on the same path from the same process waits on the first and times out.
type Lock struct {
	f    *os.File
	path string
}

// LockPath returns the sidecar lock file path for a state file.
func LockPath(statePath string) string {
	return statePath + constants.LockSuffix
}

// Acquire takes the exclusive transaction lock for statePath, creating the
// sidecar lock file if needed. It retries while another process holds the
// lock, until opts.Timeout elapses or ctx is done.
func Acquire(ctx context.Context, statePath string, opts Options) (*Lock, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	logger := zerolog.Ctx(ctx)
	lockPath := LockPath(statePath)

	// Read-only is enough to flock, and lets users other than the creator
	// of the sidecar lock it.
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDONLY, constants.StateFilePerm) //#nosec G302,G304 -- lock file is shared between processes, path supplied by caller
	if err != nil {
		return nil, mperrors.Storagef(err, "failed to open lock file %s", lockPath)
	}

	deadline := opts.Clock.Now().Add(opts.Timeout)
	attempts := 0
	for {
		attempts++
		err := flock.Exclusive(f.Fd())
		if err == nil {
			if attempts > 1 {
				logger.Debug().Str("lock", lockPath).Int("attempts", attempts).Msg("lock acquired after contention")
			}
			return &Lock{f: f, path: lockPath}, nil
		}
		if !flock.IsBusy(err) {
			_ = f.Close()
			return nil, mperrors.Storagef(err, "failed to lock %s", lockPath)
		}
		if !opts.Clock.Now().Before(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to lock %s after %s: %w", lockPath, opts.Timeout, mperrors.ErrLockTimeout)
		}

		logger.Debug().Str("lock", lockPath).Int("attempt", attempts).Msg("lock busy, retrying")

		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		case <-opts.Clock.After(opts.RetryInterval):
		}
	}
}

// Path returns the sidecar lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and closes the sidecar. Calling Release on a nil or
// already released Lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil

	if err := flock.Unlock(f.Fd()); err != nil {
		// Closing drops the lock anyway.
		_ = f.Close()
		return mperrors.Storagef(err, "failed to unlock %s", l.path)
	}
	return mperrors.Storage(f.Close(), "failed to close lock file")
}
