//go:build unix

package flock_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/multipid/internal/flock"
)

func openLockFile(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test code using safe temp dir
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExclusive(t *testing.T) {
	t.Parallel()

	t.Run("acquires lock on new file", func(t *testing.T) {
		t.Parallel()
		f := openLockFile(t, filepath.Join(t.TempDir(), "pids.lock"))

		require.NoError(t, flock.Exclusive(f.Fd()))
		require.NoError(t, flock.Unlock(f.Fd()))
	})

	t.Run("second descriptor is busy while held", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pids.lock")
		first := openLockFile(t, path)
		second := openLockFile(t, path)

		require.NoError(t, flock.Exclusive(first.Fd()))

		err := flock.Exclusive(second.Fd())
		require.Error(t, err)
		assert.True(t, flock.IsBusy(err))

		require.NoError(t, flock.Unlock(first.Fd()))
		require.NoError(t, flock.Exclusive(second.Fd()))
		require.NoError(t, flock.Unlock(second.Fd()))
	})

	t.Run("read-only descriptors lock and contend", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pids.lock")
		require.NoError(t, os.WriteFile(path, nil, 0o444)) // #nosec G306 -- test code using safe temp dir

		first, err := os.Open(path) // #nosec G304 -- test code using safe temp dir
		require.NoError(t, err)
		t.Cleanup(func() { _ = first.Close() })
		second, err := os.Open(path) // #nosec G304 -- test code using safe temp dir
		require.NoError(t, err)
		t.Cleanup(func() { _ = second.Close() })

		require.NoError(t, flock.Exclusive(first.Fd()))
		err = flock.Exclusive(second.Fd())
		require.Error(t, err)
		assert.True(t, flock.IsBusy(err))
		require.NoError(t, flock.Unlock(first.Fd()))
	})

	t.Run("closing the descriptor drops the lock", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pids.lock")
		first, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test code using safe temp dir
		require.NoError(t, err)
		require.NoError(t, flock.Exclusive(first.Fd()))
		require.NoError(t, first.Close())

		second := openLockFile(t, path)
		require.NoError(t, flock.Exclusive(second.Fd()))
		require.NoError(t, flock.Unlock(second.Fd()))
	})
}

func TestIsBusy(t *testing.T) {
	assert.False(t, flock.IsBusy(nil))
	assert.False(t, flock.IsBusy(errors.New("disk on fire")))
	assert.False(t, flock.IsBusy(os.ErrPermission))
}
