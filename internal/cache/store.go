// Package cache implements the TTL-gated flat-file cache used for
// documentation indexes and fetched documents. One JSON file per key,
// content-addressed paths, no update-in-place.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// docsDir is the subdirectory holding per-(version, document) files.
const docsDir = "docs"

// Store persists JSON blobs under a root directory. Keys are relative
// paths derived by the Key methods; the root is injected by the caller,
// there is no process-wide default.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory, creating it
// if necessary.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("cache: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute cache root directory.
func (s *Store) Root() string {
	return s.root
}

// IndexKey returns the cache key for a version's doc index.
func (s *Store) IndexKey(version string) string {
	return "index-" + version + ".json"
}

// SearchIndexKey returns the cache key for a version's derived search index.
func (s *Store) SearchIndexKey(version string) string {
	return "search-index-" + version + ".json"
}

// DocKey returns the cache key for one (version, document path) pair.
// The document path is hashed so arbitrary path characters collapse into
// a fixed-length filename-safe token.
func (s *Store) DocKey(version, docPath string) string {
	h := sha256.Sum256([]byte(docPath))
	return filepath.Join(docsDir, version+"-"+hex.EncodeToString(h[:])+".json")
}

// IsValid reports whether the entry at key exists and was written less
// than ttl ago. Missing or unreadable entries are invalid.
func (s *Store) IsValid(key string, ttl time.Duration) bool {
	info, err := os.Stat(filepath.Join(s.root, key))
	if err != nil || info.IsDir() {
		return false
	}
	return time.Since(info.ModTime()) < ttl
}

// Read unmarshals the entry at key into T. The second return is false
// when the entry is missing or unparseable; those are treated as absent,
// never as errors, so readers tolerate concurrent external mutation.
func Read[T any](s *Store, key string) (T, bool) {
	var v T
	data, err := os.ReadFile(filepath.Join(s.root, key))
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// Write serializes v and atomically replaces the entry at key:
// tmp file, fsync, rename. Parent directories are created as needed.
func (s *Store) Write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}

	abs := filepath.Join(s.root, key)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("cache: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".cache-tmp-*")
	if err != nil {
		return fmt.Errorf("cache: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("cache: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("cache: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("cache: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes the entry at key.
func (s *Store) Delete(key string) error {
	if err := os.Remove(filepath.Join(s.root, key)); err != nil {
		return fmt.Errorf("cache: delete %s: %w", key, err)
	}
	return nil
}
