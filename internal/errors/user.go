package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain
// traversal, and specific sentinels must win over the ErrStorage class.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrDuplicateAcquire,
		info: ErrorInfo{
			Message: "This PID already holds the lock.",
			Action:  "Release the previous hold before acquiring again, or pass a different PID.",
		},
	},
	{
		err: ErrMissingRelease,
		info: ErrorInfo{
			Message: "This PID does not hold the lock.",
			Action:  "Check that acquire ran with the same PID and that the holder process is still alive.",
		},
	},
	{
		err: ErrSemaphoreUnderflow,
		info: ErrorInfo{
			Message: "The semaphore is already zero.",
			Action:  "Every decrement-test must be paired with an earlier test-increment.",
		},
	},
	{
		err: ErrInvalidPID,
		info: ErrorInfo{
			Message: "Process identifiers must be positive integers.",
		},
	},
	{
		err: ErrCorruptState,
		info: ErrorInfo{
			Message: "The state file contains an entry that is not a valid integer.",
			Action:  "Inspect the file by hand; remove it only if no holder is still running.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Timed out waiting for another process to finish its transaction.",
			Action:  "Retry, or raise lock.timeout in the configuration.",
		},
	},
	{
		err: ErrStorage,
		info: ErrorInfo{
			Message: "The state file could not be read or written.",
			Action:  "Check that the parent directory exists and is writable.",
		},
	},
	{
		err: ErrWaitTimeout,
		info: ErrorInfo{
			Message: "The lock still has holders after the wait timeout.",
			Action:  "Run 'multipid state PATH' to see which processes still hold it.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unknown output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrConfigInvalidLock,
		info: ErrorInfo{
			Message: "Invalid lock configuration.",
			Action:  "lock.timeout and lock.retry_interval must be positive durations.",
		},
	},
	{
		err: ErrConfigInvalidWait,
		info: ErrorInfo{
			Message: "Invalid wait configuration.",
			Action:  "wait.interval must be positive and wait.timeout must not be negative.",
		},
	},
	{
		err: ErrConfigInvalidLog,
		info: ErrorInfo{
			Message: "Invalid log configuration.",
			Action:  "log.max_size_mb must be positive and log.max_backups must not be negative.",
		},
	},
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
// The action is empty when there is nothing useful to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
