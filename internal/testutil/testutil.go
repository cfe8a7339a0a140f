// Package testutil provides shared test helpers for cache stores and loggers.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/yriveiro/opencode-python-docs/internal/cache"
)

// Store creates a cache store rooted in a temporary directory that is
// cleaned up with the test.
func Store(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// DiscardLogger returns a logger that drops all records.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
