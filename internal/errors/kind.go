package errors

import (
	"context"
	"errors"
)

// Kind is a coarse, switchable classification of an error returned by the
// holder set store and the semaphore.
type Kind int

// Error kinds, ordered from most to least specific.
const (
	// KindNone is returned for a nil error.
	KindNone Kind = iota
	// KindDuplicateAcquire is a caller-logic error: the PID is already a holder.
	KindDuplicateAcquire
	// KindMissingRelease is a caller-logic error: the PID is not a holder.
	KindMissingRelease
	// KindSemaphoreUnderflow is a caller-logic error: decrement below zero.
	KindSemaphoreUnderflow
	// KindInvalidInput is a rejected argument, such as a non-positive PID.
	KindInvalidInput
	// KindCorrupt is an unparseable backing file.
	KindCorrupt
	// KindLockTimeout is a transaction lock that could not be taken in time.
	KindLockTimeout
	// KindStorage is any other failure to read, lock or write the backing file.
	KindStorage
	// KindWaitTimeout is a wait that ended before the holder set emptied.
	KindWaitTimeout
	// KindCanceled is a context cancellation or deadline.
	KindCanceled
	// KindOther is anything not produced by this module.
	KindOther
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindDuplicateAcquire:
		return "duplicate_acquire"
	case KindMissingRelease:
		return "missing_release"
	case KindSemaphoreUnderflow:
		return "semaphore_underflow"
	case KindInvalidInput:
		return "invalid_input"
	case KindCorrupt:
		return "corrupt_state"
	case KindLockTimeout:
		return "lock_timeout"
	case KindStorage:
		return "storage"
	case KindWaitTimeout:
		return "wait_timeout"
	case KindCanceled:
		return "canceled"
	default:
		return "other"
	}
}

// IsCallerError reports whether the kind signals a mismanaged acquire/release
// pairing rather than an environment problem.
func (k Kind) IsCallerError() bool {
	return k == KindDuplicateAcquire || k == KindMissingRelease || k == KindSemaphoreUnderflow
}

// kindEntries maps sentinels to kinds. Specific sentinels come before the
// ErrStorage class they also match.
//
//nolint:gochecknoglobals // Pre-built mapping
var kindEntries = []struct {
	err  error
	kind Kind
}{
	{ErrDuplicateAcquire, KindDuplicateAcquire},
	{ErrMissingRelease, KindMissingRelease},
	{ErrSemaphoreUnderflow, KindSemaphoreUnderflow},
	{ErrInvalidPID, KindInvalidInput},
	{ErrInvalidArgument, KindInvalidInput},
	{ErrCorruptState, KindCorrupt},
	{ErrLockTimeout, KindLockTimeout},
	{ErrStorage, KindStorage},
	{ErrWaitTimeout, KindWaitTimeout},
}

// KindOf classifies err. Wrapped errors are unwrapped with errors.Is.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, entry := range kindEntries {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindOther
}
