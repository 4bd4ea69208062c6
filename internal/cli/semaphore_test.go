package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphoreCommands(t *testing.T) {
	path := tempStatePath(t)

	res := runCLI(t, "semaphore", "test-increment", path)
	require.NoError(t, res.err)
	assert.Equal(t, "0\n", res.stdout, "first user")

	res = runCLI(t, "semaphore", "test-increment", path)
	require.NoError(t, res.err)
	assert.Equal(t, "1\n", res.stdout)

	res = runCLI(t, "semaphore", "state", path)
	require.NoError(t, res.err)
	assert.Equal(t, "2\n", res.stdout)

	res = runCLI(t, "semaphore", "decrement-test", path)
	require.NoError(t, res.err)
	assert.Equal(t, "1\n", res.stdout)

	res = runCLI(t, "-o", "json", "semaphore", "decrement-test", path)
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"path":"`+path+`","value":0}`, res.stdout, "last user")
	assert.NoFileExists(t, path)
}

func TestSemaphoreCommands_Underflow(t *testing.T) {
	res := runCLI(t, "semaphore", "decrement-test", tempStatePath(t))

	require.Error(t, res.err)
	assert.Equal(t, ExitCallerError, res.code())
	assert.Contains(t, res.stderr, "already zero")
}
