package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type payload struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

// backdate pushes an entry's mtime into the past to simulate TTL expiry.
func backdate(t *testing.T, s *Store, key string, age time.Duration) {
	t.Helper()
	abs := filepath.Join(s.Root(), key)
	past := time.Now().Add(-age)
	if err := os.Chtimes(abs, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := tempStore(t)
	in := payload{Name: "asyncio", Count: 42, Tags: []string{"a", "b"}}

	if err := s.Write(s.IndexKey("3.13"), in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, ok := Read[payload](s, s.IndexKey("3.13"))
	if !ok {
		t.Fatal("Read: entry absent")
	}
	if out.Name != in.Name || out.Count != in.Count || len(out.Tags) != 2 {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestReadMissingKey(t *testing.T) {
	s := tempStore(t)
	if _, ok := Read[payload](s, s.IndexKey("nope")); ok {
		t.Error("Read on missing key reported present")
	}
}

func TestReadCorruptEntry(t *testing.T) {
	s := tempStore(t)
	key := s.IndexKey("3.13")
	if err := os.WriteFile(filepath.Join(s.Root(), key), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := Read[payload](s, key); ok {
		t.Error("Read on corrupt entry reported present")
	}
}

func TestIsValid(t *testing.T) {
	s := tempStore(t)
	key := s.DocKey("3.13", "library/asyncio")

	if s.IsValid(key, time.Hour) {
		t.Error("IsValid on nonexistent key = true")
	}

	if err := s.Write(key, payload{Name: "doc"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.IsValid(key, time.Hour) {
		t.Error("IsValid right after Write = false")
	}

	backdate(t, s, key, 2*time.Hour)
	if s.IsValid(key, time.Hour) {
		t.Error("IsValid after TTL elapsed = true")
	}
}

func TestDocKeyDeterministicAndSafe(t *testing.T) {
	s := tempStore(t)
	a := s.DocKey("3.13", "library/functions#open")
	b := s.DocKey("3.13", "library/functions#open")
	c := s.DocKey("3.13", "library/functions#print")

	if a != b {
		t.Errorf("same input produced different keys: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different inputs produced the same key")
	}
	if filepath.Base(a) == "" || filepath.Dir(a) != "docs" {
		t.Errorf("unexpected key shape: %q", a)
	}
}

func TestGC_EmptyRoot(t *testing.T) {
	s := tempStore(t)
	stats := s.RunGarbageCollection(time.Hour, time.Hour)
	if stats != (GCStats{}) {
		t.Errorf("stats = %+v, want all zero", stats)
	}
}

func TestGC_DeletesOnlyExpired(t *testing.T) {
	s := tempStore(t)
	fresh := s.DocKey("3.13", "library/json")
	stale := s.DocKey("3.13", "library/pickle")

	if err := s.Write(fresh, payload{Name: "fresh"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(stale, payload{Name: "stale"}); err != nil {
		t.Fatal(err)
	}
	backdate(t, s, stale, 48*time.Hour)

	stats := s.RunGarbageCollection(time.Hour, 24*time.Hour)
	if stats.Scanned != 2 {
		t.Errorf("Scanned = %d, want 2", stats.Scanned)
	}
	if stats.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1", stats.Deleted)
	}
	if stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", stats.Errors)
	}

	if _, ok := Read[payload](s, fresh); !ok {
		t.Error("fresh entry was deleted")
	}
	if _, ok := Read[payload](s, stale); ok {
		t.Error("stale entry survived")
	}
}

func TestGC_SeparateTTLs(t *testing.T) {
	s := tempStore(t)
	index := s.IndexKey("3.13")
	doc := s.DocKey("3.13", "library/os")

	if err := s.Write(index, payload{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(doc, payload{}); err != nil {
		t.Fatal(err)
	}
	// Both 2h old: index TTL 1h expires the index, doc TTL 24h keeps the doc.
	backdate(t, s, index, 2*time.Hour)
	backdate(t, s, doc, 2*time.Hour)

	stats := s.RunGarbageCollection(time.Hour, 24*time.Hour)
	if stats.Scanned != 2 || stats.Deleted != 1 {
		t.Errorf("stats = %+v, want scanned 2 deleted 1", stats)
	}
	if s.IsValid(index, time.Hour) {
		t.Error("expired index survived")
	}
	if !s.IsValid(doc, 24*time.Hour) {
		t.Error("fresh doc deleted")
	}
}

func TestGC_Idempotent(t *testing.T) {
	s := tempStore(t)
	key := s.IndexKey("3.13")
	if err := s.Write(key, payload{}); err != nil {
		t.Fatal(err)
	}
	backdate(t, s, key, 2*time.Hour)

	first := s.RunGarbageCollection(time.Hour, time.Hour)
	second := s.RunGarbageCollection(time.Hour, time.Hour)
	if first.Deleted != 1 {
		t.Errorf("first sweep deleted %d, want 1", first.Deleted)
	}
	if second != (GCStats{}) {
		t.Errorf("second sweep = %+v, want all zero", second)
	}
}
