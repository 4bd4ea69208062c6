// Package logging provides zerolog helpers shared by the multipid CLI.
// Many short-lived processes may append to the same log file, so every entry
// is stamped with the process that wrote it.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// Field names added by ProcessHook.
const (
	FieldProcess = "proc"
	FieldParent  = "ppid"
)

// ProcessHook is a zerolog hook that tags each event with the writing
// process id and its parent.
type ProcessHook struct {
	pid  int
	ppid int
}

// NewProcessHook creates a hook for the current process.
func NewProcessHook() *ProcessHook {
	return &ProcessHook{pid: os.Getpid(), ppid: os.Getppid()}
}

// Run implements the zerolog.Hook interface.
func (h *ProcessHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Int(FieldProcess, h.pid).Int(FieldParent, h.ppid)
}
