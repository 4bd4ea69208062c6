// Package process answers whether a process identifier names a live process.
//
// The holder set store depends only on the Oracle interface, so tests can
// decide liveness with Static instead of spawning and killing processes.
package process

import (
	"math"
	"sync"
)

// MaxPID is the largest process identifier any supported OS hands out.
// kill(2) truncates to a 32-bit pid_t, so a larger value would probe an
// unrelated process.
const MaxPID = math.MaxInt32

// Valid reports whether pid is in the range of real process identifiers.
func Valid(pid int) bool {
	return pid > 0 && pid <= MaxPID
}

// Oracle reports whether a process is currently alive.
type Oracle interface {
	Alive(pid int) bool
}

// System probes the host process table.
//
// A process that exists but belongs to another user is alive: presence, not
// the right to signal it, is what counts. Only a definite "no such process"
// answer makes a PID dead.
type System struct{}

// Alive reports whether pid names a running process on this host.
func (System) Alive(pid int) bool {
	if !Valid(pid) {
		return false
	}
	return probe(pid)
}

// Func adapts an ordinary function to the Oracle interface.
type Func func(pid int) bool

// Alive calls f(pid).
func (f Func) Alive(pid int) bool {
	return f(pid)
}

// Static is an Oracle backed by an explicit set of live PIDs.
// It is safe for concurrent use.
type Static struct {
	mu    sync.RWMutex
	alive map[int]struct{}
}

// NewStatic returns a Static oracle in which exactly the given PIDs are alive.
func NewStatic(alive ...int) *Static {
	s := &Static{alive: make(map[int]struct{}, len(alive))}
	for _, pid := range alive {
		s.alive[pid] = struct{}{}
	}
	return s
}

// Alive reports whether pid was registered as alive.
func (s *Static) Alive(pid int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.alive[pid]
	return ok
}

// Spawn marks pid as alive.
func (s *Static) Spawn(pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive[pid] = struct{}{}
}

// Kill marks pid as dead.
func (s *Static) Kill(pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.alive, pid)
}

var (
	_ Oracle = System{}
	_ Oracle = Func(nil)
	_ Oracle = (*Static)(nil)
)
