// Package apperr defines sentinel error classes shared across layers.
package apperr

import "errors"

var (
	// ErrNotFound marks an upstream document or version that does not exist.
	ErrNotFound = errors.New("not found")
)
