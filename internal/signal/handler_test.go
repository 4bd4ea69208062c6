package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_InitialState(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	require.NoError(t, h.Context().Err())
	assert.Nil(t, h.Received())
	assert.Zero(t, h.ExitCode())

	select {
	case <-h.Interrupted():
		t.Fatal("interrupted channel should be open initially")
	default:
	}
}

func TestHandler_SignalCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGTERM)

	assert.ErrorIs(t, h.Context().Err(), context.Canceled)
	assert.Equal(t, syscall.SIGTERM, h.Received())
	assert.Equal(t, 128+int(syscall.SIGTERM), h.ExitCode())

	select {
	case <-h.Interrupted():
	default:
		t.Fatal("interrupted channel should be closed after signal")
	}
}

func TestHandler_FirstSignalWins(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handleSignal(syscall.SIGINT)
	h.handleSignal(syscall.SIGTERM)

	assert.Equal(t, syscall.SIGINT, h.Received())
	assert.Equal(t, 130, h.ExitCode())
}

func TestHandler_RepeatedSignalsDoNotBlock(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	sent := make(chan struct{})
	go func() {
		h.sigChan <- syscall.SIGINT
		h.sigChan <- syscall.SIGINT
		h.sigChan <- syscall.SIGINT
		close(sent)
	}()

	select {
	case <-sent:
	case <-time.After(5 * time.Second):
		t.Fatal("listener stopped draining signals")
	}

	select {
	case <-h.Interrupted():
	case <-time.After(5 * time.Second):
		t.Fatal("signal was not handled")
	}
	assert.Equal(t, syscall.SIGINT, h.Received())
}

func TestHandler_Stop(t *testing.T) {
	h := NewHandler(context.Background())

	h.Stop()
	h.Stop()

	require.Error(t, h.Context().Err())
	assert.Nil(t, h.Received(), "stop is not an interruption")
}

func TestHandler_ParentCanceled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	require.Error(t, h.Context().Err())
	assert.Zero(t, h.ExitCode())
}
