// Package testutil provides helpers shared by multipid tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import (
	"math"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// StepClock is a fake clock.Clock whose time moves forward only when After
// is called, by exactly the requested duration. The returned channel has
// already fired, so retry and poll loops run to their deadline instantly.
type StepClock struct {
	mu  sync.Mutex
	now time.Time
}

// Now returns the current fake time.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After advances the fake time by d and returns a fired channel.
func (c *StepClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// Elapsed returns how far the clock has advanced from its zero time.
func (c *StepClock) Elapsed() time.Duration {
	return c.Now().Sub(time.Time{})
}

// WriteFile writes content to path, failing the test on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //#nosec G304 -- test file path
	require.NoError(t, err)
	return string(data)
}

// OutOfRangePIDs returns identifiers that fit in an int but not in a 32-bit
// pid_t: the first value past the range and one that truncates to pid 1.
// It skips the test where int is only 32 bits wide.
func OutOfRangePIDs(t *testing.T) []int {
	t.Helper()
	if strconv.IntSize < 64 {
		t.Skip("int cannot hold a value past the pid range")
	}
	past := uint64(math.MaxInt32) + 1
	wrapsToInit := uint64(1)<<32 + 1
	return []int{int(past), int(wrapsToInit)}
}
