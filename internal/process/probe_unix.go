//go:build unix

package process

import (
	"errors"

	"golang.org/x/sys/unix"
)

// probe sends signal 0, which performs the existence and permission checks
// of kill(2) without delivering anything.
func probe(pid int) bool {
	err := unix.Kill(pid, 0)
	if err == nil {
		return true
	}
	// EPERM: the process exists but is owned by someone else.
	return !errors.Is(err, unix.ESRCH)
}
