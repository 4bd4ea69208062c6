package errors

import (
	"errors"
	"fmt"
)

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage:
//
//	if err := f.Sync(); err != nil {
//	    return errors.Wrap(err, "failed to sync state file")
//	}
//
// The original error chain is preserved for errors.Is().
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Storage wraps an I/O failure so that it matches ErrStorage while keeping
// the underlying cause (for example fs.ErrPermission) reachable.
// Errors that already match ErrStorage are only given the extra context.
// It returns nil if err is nil.
func Storage(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return Wrap(err, msg)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrStorage, err)
}

// Storagef is the formatted variant of Storage.
func Storagef(err error, format string, args ...any) error {
	return Storage(err, fmt.Sprintf(format, args...))
}
