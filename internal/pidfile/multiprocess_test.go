package pidfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/multipid/internal/lockfile"
)

// Environment variables that turn the test binary into a holder process.
const (
	helperModeEnv = "MULTIPID_TEST_HELPER"
	helperPathEnv = "MULTIPID_TEST_PATH"
)

func TestMain(m *testing.M) {
	if os.Getenv(helperModeEnv) == "acquire" {
		os.Exit(runAcquireHelper(os.Getenv(helperPathEnv)))
	}
	os.Exit(m.Run())
}

// runAcquireHelper acquires its own PID, reports the PID on stdout, and then
// stays alive until stdin is closed so that later transactions see it as a
// live holder.
func runAcquireHelper(path string) int {
	s := New(path, WithLockOptions(lockfile.Options{Timeout: time.Minute, RetryInterval: 5 * time.Millisecond}))
	if _, err := s.Acquire(context.Background(), os.Getpid()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}
	_, _ = fmt.Fprintln(os.Stdout, os.Getpid())
	_, _ = io.Copy(io.Discard, os.Stdin)
	return 0
}

type holderProcess struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *bufio.Reader
}

func startHolder(t *testing.T, ctx context.Context, path string) *holderProcess {
	t.Helper()

	cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=^$") //#nosec G204 -- re-executing the test binary
	cmd.Env = append(os.Environ(), helperModeEnv+"=acquire", helperPathEnv+"="+path)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	h := &holderProcess{cmd: cmd, stdin: stdin, out: bufio.NewReader(stdout)}
	t.Cleanup(func() {
		_ = h.stdin.Close()
		_ = h.cmd.Wait()
	})
	return h
}

// TestStore_ConcurrentProcesses runs independent OS processes that all
// acquire the same fresh path at once. Every acquire must succeed and the
// final file must hold exactly their PIDs.
func TestStore_ConcurrentProcesses(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}

	const n = 16
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	path := filepath.Join(t.TempDir(), "pids")

	holders := make([]*holderProcess, n)
	for i := range holders {
		holders[i] = startHolder(t, ctx, path)
	}

	reported := make([]int, n)
	g, _ := errgroup.WithContext(ctx)
	for i, h := range holders {
		g.Go(func() error {
			line, err := h.out.ReadString('\n')
			if err != nil {
				return fmt.Errorf("holder %d exited before acquiring: %w", h.cmd.Process.Pid, err)
			}
			pid, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				return err
			}
			reported[i] = pid
			return nil
		})
	}
	require.NoError(t, g.Wait())

	raw, err := os.ReadFile(path) //#nosec G304 -- test file path
	require.NoError(t, err)
	onDisk, err := Parse(raw)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	assert.Len(t, lines, n, "one line per holder, no duplicates")
	assert.Equal(t, n, onDisk.Len())

	state, err := New(path).State(ctx)
	require.NoError(t, err)
	require.Equal(t, n, state.Len())
	for i, h := range holders {
		assert.Equal(t, h.cmd.Process.Pid, reported[i])
		assert.True(t, state.Contains(h.cmd.Process.Pid), "lost update for pid %d", h.cmd.Process.Pid)
	}

	// Let the holders exit; a later transaction must forget all of them.
	for _, h := range holders {
		require.NoError(t, h.stdin.Close())
		require.NoError(t, h.cmd.Wait())
	}

	self := os.Getpid()
	after, err := New(path).Acquire(ctx, self)
	require.NoError(t, err)
	assert.Equal(t, HolderSet{self}, after)
}
