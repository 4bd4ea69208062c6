// Package flock provides cross-platform advisory file locking.
//
// Locks are exclusive and non-blocking: a failed attempt returns immediately
// and IsBusy reports whether the failure was contention rather than an I/O
// problem. The OS drops the lock when the holding descriptor is closed or the
// process exits, so a crashed holder never leaves a path locked.
//
// Usage:
//
//	f, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
//	if err := flock.Exclusive(f.Fd()); err != nil {
//	    // flock.IsBusy(err) -> another process holds it
//	}
//	defer flock.Unlock(f.Fd())
package flock
