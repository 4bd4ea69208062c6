// Package semaphore implements an atomic counting semaphore file: a shared
// lock that opens only when every user has unlocked. It is the counter-only
// sibling of the multi-PID file and uses the same transaction discipline, but
// does not know who its users are, so a crashed user is never forgotten.
package semaphore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/multipid/internal/ctxutil"
	mperrors "github.com/mrz1836/multipid/internal/errors"
	"github.com/mrz1836/multipid/internal/lockfile"
)

// Semaphore is a counter stored as a single decimal integer in a file.
// A missing file counts as zero, and the file is removed whenever the count
// returns to zero.
type Semaphore struct {
	path     string
	lockOpts lockfile.Options
}

// Option configures a Semaphore.
type Option func(*Semaphore)

// WithLockOptions sets how long a transaction waits for a concurrent one.
func WithLockOptions(opts lockfile.Options) Option {
	return func(s *Semaphore) {
		s.lockOpts = opts
	}
}

// New returns a Semaphore backed by the file at path.
func New(path string, opts ...Option) *Semaphore {
	s := &Semaphore{path: path, lockOpts: lockfile.DefaultOptions()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Semaphore) Path() string {
	return s.path
}

// String identifies the semaphore in messages.
func (s *Semaphore) String() string {
	return "semaphore " + s.path
}

// TestIncrement increments the counter and returns its value from before the
// increment. Zero means the caller is the first user.
func (s *Semaphore) TestIncrement(ctx context.Context) (int, error) {
	var before int
	err := s.transact(ctx, func(cur int) (int, error) {
		before = cur
		return cur + 1, nil
	})
	if err != nil {
		return 0, err
	}
	s.logger(ctx).Debug().Int("before", before).Msg("incremented")
	return before, nil
}

// DecrementTest decrements the counter and returns its new value. Zero means
// the caller was the last user. Decrementing a zero counter fails with
// ErrSemaphoreUnderflow and removes the file.
func (s *Semaphore) DecrementTest(ctx context.Context) (int, error) {
	var after int
	err := s.transact(ctx, func(cur int) (int, error) {
		if cur == 0 {
			return 0, fmt.Errorf("failed to decrement %s: %w", s, mperrors.ErrSemaphoreUnderflow)
		}
		after = cur - 1
		return after, nil
	})
	if err != nil {
		return 0, err
	}
	s.logger(ctx).Debug().Int("after", after).Msg("decremented")
	return after, nil
}

// State returns the current count without changing it.
func (s *Semaphore) State(ctx context.Context) (int, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return 0, err
	}

	lock, err := lockfile.Acquire(ctx, s.path, s.lockOpts)
	if err != nil {
		return 0, err
	}
	defer func() { _ = lock.Release() }()

	return s.read()
}

// Held increments, runs fn with the value from before the increment, and
// decrements afterwards even if fn fails.
func (s *Semaphore) Held(ctx context.Context, fn func(ctx context.Context, before int) error) (err error) {
	before, err := s.TestIncrement(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if _, decErr := s.DecrementTest(context.WithoutCancel(ctx)); decErr != nil {
			err = errors.Join(err, decErr)
		}
	}()

	return fn(ctx, before)
}

// transact runs one locked read-modify-write cycle. A zero result removes
// the file. When mutate fails with ErrSemaphoreUnderflow the file is removed
// as well, so a stray zero file never lingers.
func (s *Semaphore) transact(ctx context.Context, mutate func(int) (int, error)) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	lock, err := lockfile.Acquire(ctx, s.path, s.lockOpts)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	cur, err := s.read()
	if err != nil {
		return err
	}

	next, err := mutate(cur)
	if err != nil {
		if errors.Is(err, mperrors.ErrSemaphoreUnderflow) {
			return errors.Join(err, lockfile.Remove(s.path))
		}
		return err
	}

	if next == 0 {
		return lockfile.Remove(s.path)
	}
	return lockfile.AtomicWrite(s.path, []byte(strconv.Itoa(next)+"\n"))
}

// read parses the counter. Must be called with the transaction lock held.
func (s *Semaphore) read() (int, error) {
	data, err := lockfile.ReadState(s.path)
	if err != nil {
		return 0, err
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("failed to parse %s: %q: %w", s, text, mperrors.ErrCorruptState)
	}
	return n, nil
}

func (s *Semaphore) logger(ctx context.Context) *zerolog.Logger {
	logger := zerolog.Ctx(ctx).With().Str("component", "semaphore").Str("path", s.path).Logger()
	return &logger
}
