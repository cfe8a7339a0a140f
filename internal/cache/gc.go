package cache

import (
	"os"
	"path/filepath"
	"time"
)

// GCStats summarizes one garbage-collection sweep.
type GCStats struct {
	Scanned int `json:"scanned"`
	Deleted int `json:"deleted"`
	Errors  int `json:"errors"`
}

// RunGarbageCollection sweeps the cache: top-level entries (doc and search
// indexes) are checked against indexTTL, entries under docs/ against docTTL.
// Expired entries are deleted. Listing or deletion failures are counted and
// the sweep continues; the sweep is idempotent and cheap enough to run on
// every startup and reconnect.
func (s *Store) RunGarbageCollection(indexTTL, docTTL time.Duration) GCStats {
	var stats GCStats

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if !os.IsNotExist(err) {
			stats.Errors++
		}
		return stats
	}

	for _, entry := range entries {
		if entry.IsDir() {
			if entry.Name() == docsDir {
				s.sweepDir(docsDir, docTTL, &stats)
			}
			continue
		}
		s.sweepEntry(entry.Name(), indexTTL, &stats)
	}

	return stats
}

// sweepDir applies the ttl to every file directly under dir (relative to
// the cache root).
func (s *Store) sweepDir(dir string, ttl time.Duration, stats *GCStats) {
	entries, err := os.ReadDir(filepath.Join(s.root, dir))
	if err != nil {
		stats.Errors++
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		s.sweepEntry(filepath.Join(dir, entry.Name()), ttl, stats)
	}
}

func (s *Store) sweepEntry(key string, ttl time.Duration, stats *GCStats) {
	stats.Scanned++
	if s.IsValid(key, ttl) {
		return
	}
	if err := s.Delete(key); err != nil {
		stats.Errors++
		return
	}
	stats.Deleted++
}
