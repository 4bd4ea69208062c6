// Package errors provides centralized error handling for multipid.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is(),
// and KindOf reduces any error to a tagged Kind for callers that prefer a switch.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrDuplicateAcquire indicates a PID tried to acquire a holder set it
	// already belongs to without an intervening release.
	ErrDuplicateAcquire = errors.New("pid already present in holder set")

	// ErrMissingRelease indicates a PID tried to release a holder set it does
	// not belong to, either because it never acquired or because it was
	// pruned as dead.
	ErrMissingRelease = errors.New("pid not present in holder set")

	// ErrStorage indicates the backing file could not be read, locked or written.
	ErrStorage = errors.New("storage error")

	// ErrCorruptState indicates the backing file contains content that cannot
	// be parsed. It is reported as a storage error as well.
	ErrCorruptState = &classified{msg: "corrupt state file", class: ErrStorage}

	// ErrInvalidPID indicates a non-positive process identifier. It is
	// reported as a storage error as well.
	ErrInvalidPID = &classified{msg: "invalid pid", class: ErrStorage}

	// ErrLockTimeout indicates the transaction lock could not be acquired
	// within the configured timeout. It is reported as a storage error as well.
	ErrLockTimeout = &classified{msg: "lock acquisition timeout", class: ErrStorage}

	// ErrSemaphoreUnderflow indicates a decrement of a semaphore that is already zero.
	ErrSemaphoreUnderflow = errors.New("semaphore already zero")

	// ErrWaitTimeout indicates the holder set did not become empty before the
	// wait deadline.
	ErrWaitTimeout = errors.New("timed out waiting for holder set to empty")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidLock indicates an invalid lock configuration value.
	ErrConfigInvalidLock = errors.New("invalid lock configuration")

	// ErrConfigInvalidWait indicates an invalid wait configuration value.
	ErrConfigInvalidWait = errors.New("invalid wait configuration")

	// ErrConfigInvalidLog indicates an invalid log file configuration value.
	ErrConfigInvalidLog = errors.New("invalid log configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCommandRequired indicates that the held command was invoked without
	// a child command to run.
	ErrCommandRequired = errors.New("command required")
)

// classified is a sentinel that also matches a broader class sentinel, so a
// corrupt state file is both ErrCorruptState and ErrStorage.
type classified struct {
	msg   string
	class error
}

// Error implements the error interface.
func (e *classified) Error() string {
	return e.msg
}

// Is reports whether target is the broader class of this sentinel.
func (e *classified) Is(target error) bool {
	return target == e.class
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
