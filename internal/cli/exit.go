package cli

import "fmt"

// ExitStatusError carries an exact exit status, such as the status of the
// child run by `held` or 128+N after signal N. Without Err nothing is printed.
type ExitStatusError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exit status %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error.
func (e *ExitStatusError) Unwrap() error {
	return e.Err
}
