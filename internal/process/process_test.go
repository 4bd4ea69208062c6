package process

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/multipid/internal/testutil"
)

func TestSystem_Alive(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) int
		expected bool
	}{
		{
			name:     "current process is alive",
			setup:    func(_ *testing.T) int { return os.Getpid() },
			expected: true,
		},
		{
			name: "running child is alive",
			setup: func(t *testing.T) int {
				if runtime.GOOS == "windows" {
					t.Skip("sleep is not available on windows")
				}
				cmd := exec.CommandContext(context.Background(), "sleep", "30")
				require.NoError(t, cmd.Start())
				t.Cleanup(func() {
					_ = cmd.Process.Kill()
					_ = cmd.Wait()
				})
				return cmd.Process.Pid
			},
			expected: true,
		},
		{
			name: "reaped child is dead",
			setup: func(t *testing.T) int {
				if runtime.GOOS == "windows" {
					t.Skip("true is not available on windows")
				}
				cmd := exec.CommandContext(context.Background(), "true")
				require.NoError(t, cmd.Run())
				return cmd.Process.Pid
			},
			expected: false,
		},
		{
			name:     "zero pid is dead",
			setup:    func(_ *testing.T) int { return 0 },
			expected: false,
		},
		{
			name:     "negative pid is dead",
			setup:    func(_ *testing.T) int { return -1 },
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pid := tc.setup(t)
			assert.Equal(t, tc.expected, System{}.Alive(pid))
		})
	}
}

func TestSystem_Alive_BeyondPIDRange(t *testing.T) {
	for _, pid := range testutil.OutOfRangePIDs(t) {
		assert.False(t, Valid(pid), "pid %d", pid)
		assert.False(t, System{}.Alive(pid), "pid %d must not be probed", pid)
	}
	assert.True(t, Valid(MaxPID))
	assert.False(t, Valid(0))
}

func TestSystem_Alive_OtherUsersProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pid 1 is not meaningful on windows")
	}
	// Signalling init as an unprivileged user fails with EPERM, which must
	// still count as alive.
	assert.True(t, System{}.Alive(1))
}

func TestFunc_Alive(t *testing.T) {
	even := Func(func(pid int) bool { return pid%2 == 0 })

	assert.True(t, even.Alive(2))
	assert.False(t, even.Alive(3))
}

func TestStatic(t *testing.T) {
	s := NewStatic(100, 200)

	assert.True(t, s.Alive(100))
	assert.True(t, s.Alive(200))
	assert.False(t, s.Alive(300))

	s.Kill(100)
	assert.False(t, s.Alive(100))

	s.Spawn(300)
	assert.True(t, s.Alive(300))
}

func TestStatic_ConcurrentUse(t *testing.T) {
	s := NewStatic()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			s.Spawn(pid)
			_ = s.Alive(pid)
			if pid%2 == 0 {
				s.Kill(pid)
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i <= 50; i++ {
		assert.Equal(t, i%2 == 1, s.Alive(i), "pid %d", i)
	}
}
