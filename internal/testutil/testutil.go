// Package testutil provides shared test helpers: a fake spreadsheet
// web-app backend and a temporary snapshot database.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/sdn3bangkuang/sekolahku/internal/sheet"
	"github.com/sdn3bangkuang/sekolahku/internal/snapshot"
)

// FakeSheet emulates the Apps Script web app: GET with an action query
// returns the matching row set, POST records the body and answers ok.
// Mutate the exported row slices before the fetch under test.
type FakeSheet struct {
	mu       sync.Mutex
	Teachers []map[string]any
	News     []map[string]any
	Gallery  []map[string]any

	// Posts holds every decoded POST body in arrival order.
	Posts []map[string]any

	// FailPosts, when set, makes POST answer a script-style error status.
	FailPosts string

	srv *httptest.Server
}

// NewFakeSheet starts the fake backend; it is shut down via t.Cleanup.
func NewFakeSheet(t *testing.T) *FakeSheet {
	t.Helper()
	f := &FakeSheet{}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// URL returns the fake web-app endpoint.
func (f *FakeSheet) URL() string { return f.srv.URL }

// Client returns a sheet client pointed at the fake backend.
func (f *FakeSheet) Client() *sheet.Client {
	return sheet.NewClient(f.srv.URL, f.srv.Client())
}

func (f *FakeSheet) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method == http.MethodPost {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)
		f.Posts = append(f.Posts, payload)

		w.Header().Set("Content-Type", "application/json")
		if f.FailPosts != "" {
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": f.FailPosts})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
		return
	}

	var rows []map[string]any
	switch r.URL.Query().Get("action") {
	case "teachers":
		rows = f.Teachers
	case "news":
		rows = f.News
	case "gallery":
		rows = f.Gallery
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

// TempSnapshot creates a temporary snapshot database that is
// automatically cleaned up.
func TempSnapshot(t *testing.T) *snapshot.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "sekolahku-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := snapshot.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
