// Package uploads manages the local media directory that backs the
// admin photo uploads. Files live flat under one root; names are
// sanitized so a request can never reach outside it.
package uploads

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sdn3bangkuang/sekolahku/internal/checksum"
)

// Asset describes one stored upload.
type Asset struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FS stores uploads on the local file system.
type FS struct {
	root string // absolute path to the uploads directory
}

// NewFS creates an FS provider rooted at the given directory, creating
// it if necessary.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("uploads: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: mkdir root: %w", err)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute uploads directory.
func (f *FS) Root() string { return f.root }

// SafeName reduces an arbitrary client-supplied filename to its base
// name and rejects anything that could traverse out of the uploads dir.
func SafeName(name string) (string, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "" || base == "." || base == ".." || base == string(os.PathSeparator) {
		return "", fmt.Errorf("uploads: invalid filename %q", name)
	}
	if strings.ContainsAny(base, "/\\") {
		return "", fmt.Errorf("uploads: invalid filename %q", name)
	}
	return base, nil
}

func (f *FS) path(name string) (string, error) {
	base, err := SafeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.root, base), nil
}

// List returns metadata for every stored upload, sorted newest first.
func (f *FS) List() ([]Asset, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("uploads: list: %w", err)
	}
	out := make([]Asset, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.root, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, Asset{
			Name:      e.Name(),
			Size:      info.Size(),
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Read returns the raw bytes of a stored upload.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("uploads: read %s: %w", name, err)
	}
	return data, nil
}

// Write atomically stores content: tmp file, fsync, rename.
func (f *FS) Write(name string, content []byte) error {
	abs, err := f.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".upload-tmp-*")
	if err != nil {
		return fmt.Errorf("uploads: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("uploads: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("uploads: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("uploads: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("uploads: rename: %w", err)
	}
	success = true
	return nil
}

// Delete removes a stored upload.
func (f *FS) Delete(name string) error {
	abs, err := f.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("uploads: delete %s: %w", name, err)
	}
	return nil
}
