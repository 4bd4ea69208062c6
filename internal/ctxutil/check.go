// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled returns the context error once ctx is canceled or past its
// deadline, nil otherwise. Call it at the entry of every transaction so a
// canceled caller never touches the state file.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
