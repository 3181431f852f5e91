package uploads

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteReadDelete(t *testing.T) {
	fs := newTestFS(t)

	if err := fs.Write("foto.jpg", []byte("jpegdata")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := fs.Read("foto.jpg")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "jpegdata" {
		t.Errorf("content = %q", data)
	}

	if err := fs.Delete("foto.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.Read("foto.jpg"); err == nil {
		t.Error("Read after Delete should fail")
	}
}

func TestSafeNameRejectsTraversal(t *testing.T) {
	for _, name := range []string{"", ".", ".."} {
		if _, err := SafeName(name); err == nil {
			t.Errorf("SafeName(%q) should fail", name)
		}
	}
	// Traversal attempts flatten to the base name inside the uploads dir.
	fs := newTestFS(t)
	if err := fs.Write("../../etc/passwd", []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(fs.Root(), "passwd")); err != nil {
		t.Errorf("flattened write should land inside uploads dir: %v", err)
	}
}

func TestSafeNameStripsDirectories(t *testing.T) {
	got, err := SafeName("subdir/foto.png")
	if err != nil {
		t.Fatalf("SafeName: %v", err)
	}
	if got != "foto.png" {
		t.Errorf("SafeName = %q, want foto.png", got)
	}
}

func TestListSkipsDotfilesAndSorts(t *testing.T) {
	fs := newTestFS(t)

	if err := fs.Write("older.png", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fs.Root(), ".upload-tmp-123"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Ensure distinct mtimes on coarse-grained file systems.
	if err := os.Chtimes(filepath.Join(fs.Root(), "older.png"), time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Write("newer.png", []byte("bb")); err != nil {
		t.Fatal(err)
	}

	assets, err := fs.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("len = %d, want 2 (dotfile must be skipped)", len(assets))
	}
	if assets[0].Name != "newer.png" || assets[1].Name != "older.png" {
		t.Errorf("order = %s, %s", assets[0].Name, assets[1].Name)
	}
	if assets[0].Size != 2 || assets[0].Checksum == "" {
		t.Errorf("asset metadata = %+v", assets[0])
	}
}

func TestWatchReportsCreateAndDelete(t *testing.T) {
	fs := newTestFS(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	events := make(chan string, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, fs, logger, func(kind, filename string) {
			events <- kind + ":" + filename
		})
	}()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := fs.Write("baru.jpg", []byte("x")); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, events, "created:baru.jpg")

	if err := fs.Delete("baru.jpg"); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, events, "deleted:baru.jpg")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func waitEvent(t *testing.T, events chan string, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-events:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}
