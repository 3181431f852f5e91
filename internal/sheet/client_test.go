package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sdn3bangkuang/sekolahku/internal/apperr"
)

func TestFetchAllParsesAndNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("_t") == "" {
			t.Error("missing cache-buster parameter")
		}
		switch r.URL.Query().Get("action") {
		case "news":
			io.WriteString(w, `[{"id":1,"Judul":"Lomba 17an","Tanggal":"2025-08-17","excerpt":"meriah"}]`)
		case "gallery":
			io.WriteString(w, `[{"id":"g1","Keterangan":"Upacara bendera","Kategori":"Kegiatan"}]`)
		case "teachers":
			io.WriteString(w, `[{"id":2,"Nama Guru":"Budi","Jabatan":"Guru Kelas 5","No HP":"0812"}]`)
		default:
			t.Errorf("unexpected action %q", r.URL.Query().Get("action"))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	got, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if len(got.News) != 1 || got.News[0].Title != "Lomba 17an" || got.News[0].Date != "17 Agustus 2025" {
		t.Errorf("news = %+v", got.News)
	}
	if len(got.Gallery) != 1 || got.Gallery[0].Alt != "Upacara bendera" || got.Gallery[0].Category != "Kegiatan" {
		t.Errorf("gallery = %+v", got.Gallery)
	}
	if len(got.Teachers) != 1 || got.Teachers[0].ID != "2" || got.Teachers[0].Phone != "0812" {
		t.Errorf("teachers = %+v", got.Teachers)
	}
}

func TestFetchAllStatusObjectIsDeploymentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "news" {
			io.WriteString(w, `{"status":"active"}`)
			return
		}
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error for status object response")
	}
	if !errors.Is(err, apperr.ErrBackendDeployment) {
		t.Errorf("error = %v, want ErrBackendDeployment", err)
	}
	if !strings.Contains(err.Error(), "Apps Script") {
		t.Errorf("error should identify the deployment issue: %v", err)
	}
}

func TestFetchAllUnparseableBodyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `<!doctype html><html>login page</html>`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	got, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got.News) != 0 || len(got.Gallery) != 0 || len(got.Teachers) != 0 {
		t.Errorf("expected empty collections, got %+v", got)
	}
}

func TestAppendTagsPayloadWithAction(t *testing.T) {
	var captured map[string]any
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	err := c.Append(context.Background(), ActionTeacher, map[string]any{"name": "Budi", "role": "Guru"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if contentType != "text/plain;charset=utf-8" {
		t.Errorf("content type = %q", contentType)
	}
	if captured["action"] != "teacher" || captured["name"] != "Budi" {
		t.Errorf("payload = %v", captured)
	}
}

func TestDeletePayload(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	if err := c.Delete(context.Background(), CollectionTeachers, "7"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if captured["action"] != "delete" || captured["type"] != "teachers" || captured["id"] != "7" {
		t.Errorf("payload = %v", captured)
	}
}

func TestPostHTTPErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	err := c.Append(context.Background(), ActionNews, nil)
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("err = %v, want HTTP 502 mention", err)
	}
}

func TestScriptErrorsAreRewritten(t *testing.T) {
	cases := []struct {
		backendMsg string
		wantPart   string
	}{
		{"Exception: SpreadsheetApp.openById failed", "spreadsheet ID"},
		{"TypeError: Cannot read properties of null (reading 'appendRow')", "tab not found"},
		{"something else entirely", "something else entirely"},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": tc.backendMsg})
		}))
		c := NewClient(srv.URL, srv.Client())
		err := c.Append(context.Background(), ActionGallery, nil)
		srv.Close()
		if err == nil || !strings.Contains(err.Error(), tc.wantPart) {
			t.Errorf("backend %q → %v, want mention of %q", tc.backendMsg, err, tc.wantPart)
		}
	}
}
