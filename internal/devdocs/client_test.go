package devdocs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yriveiro/opencode-python-docs/internal/apperr"
)

func testSource(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/python~3.13/index.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entries":[{"name":"asyncio","path":"library/asyncio","type":"asyncio"}]}`))
	})
	mux.HandleFunc("/python~3.13/library/asyncio.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<h1>asyncio</h1><p>Asynchronous I/O.</p>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchIndex(t *testing.T) {
	srv := testSource(t)
	c := NewClient(srv.URL, "python")

	index, err := c.FetchIndex(context.Background(), "3.13")
	if err != nil {
		t.Fatalf("FetchIndex: %v", err)
	}
	if len(index.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(index.Entries))
	}
	e := index.Entries[0]
	if e.Name != "asyncio" || e.Path != "library/asyncio" || e.Type != "asyncio" {
		t.Errorf("entry = %+v", e)
	}
}

func TestFetchIndex_NotFound(t *testing.T) {
	srv := testSource(t)
	c := NewClient(srv.URL, "python")

	_, err := c.FetchIndex(context.Background(), "9.99")
	if err == nil {
		t.Fatal("expected error for unknown version")
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want apperr.ErrNotFound", err)
	}
}

func TestFetchIndex_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{broken"))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "python")

	if _, err := c.FetchIndex(context.Background(), "3.13"); err == nil {
		t.Error("expected parse error")
	}
}

func TestFetchPage(t *testing.T) {
	srv := testSource(t)
	c := NewClient(srv.URL, "python")

	html, err := c.FetchPage(context.Background(), "3.13", "library/asyncio")
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if html != "<h1>asyncio</h1><p>Asynchronous I/O.</p>" {
		t.Errorf("html = %q", html)
	}
}

func TestFetchPage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "python")

	if _, err := c.FetchPage(context.Background(), "3.13", "library/os"); err == nil {
		t.Error("expected error on HTTP 500")
	}
}
