// Package content holds the in-memory copy of the three site collections
// and coordinates reads and writes against the spreadsheet backend. The
// store is the single owner of the collections; consumers get copies and
// must go through the mutation methods.
package content

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sdn3bangkuang/sekolahku/internal/apperr"
	"github.com/sdn3bangkuang/sekolahku/internal/models"
	"github.com/sdn3bangkuang/sekolahku/internal/sheet"
	"github.com/sdn3bangkuang/sekolahku/internal/snapshot"
)

// Backend is the remote content endpoint the store reads from and writes
// to. *sheet.Client satisfies it; tests substitute a fake.
type Backend interface {
	FetchAll(ctx context.Context) (*models.Collections, error)
	Append(ctx context.Context, action string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

var _ Backend = (*sheet.Client)(nil)

// State is the store's fetch lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Store caches the three content collections for the lifetime of the
// process. Concurrent Refresh calls are not coalesced: the last response
// to resolve wins, which is acceptable for a single-operator site.
type Store struct {
	backend  Backend
	snap     *snapshot.DB // optional persistent fallback
	logger   *slog.Logger
	onChange func(kind string) // optional notification hook

	mu       sync.RWMutex
	state    State
	lastErr  string
	news     []models.NewsItem
	gallery  []models.GalleryItem
	teachers []models.Teacher
}

// NewStore creates a store. snap and onChange may be nil.
func NewStore(backend Backend, snap *snapshot.DB, logger *slog.Logger, onChange func(kind string)) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend:  backend,
		snap:     snap,
		logger:   logger,
		onChange: onChange,
		state:    StateIdle,
	}
}

// RestoreFromSnapshot seeds the collections from the persistent snapshot,
// if one exists, so the site has content before the first live fetch
// completes (or while the backend is unreachable).
func (s *Store) RestoreFromSnapshot() error {
	if s.snap == nil {
		return nil
	}
	c, err := s.snap.Load()
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	s.mu.Lock()
	s.news = c.News
	s.gallery = c.Gallery
	s.teachers = c.Teachers
	s.state = StateReady
	s.mu.Unlock()
	s.logger.Info("content: restored from snapshot",
		slog.Int("news", len(c.News)),
		slog.Int("gallery", len(c.Gallery)),
		slog.Int("teachers", len(c.Teachers)))
	return nil
}

// Refresh fetches all three collections and replaces the cache wholesale.
// News and gallery are reversed so the most recently appended sheet row
// comes first; teachers keep sheet order. On failure the previous
// collections are kept and the store enters the error state.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	c, err := s.backend.FetchAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = StateError
		s.lastErr = err.Error()
		s.mu.Unlock()
		s.logger.Error("content: refresh failed", slog.String("error", err.Error()))
		return err
	}

	// Collections are stored in presentation order: the sheet appends new
	// rows at the end, so news and gallery are reversed for newest-first.
	display := &models.Collections{
		News:     reversed(c.News),
		Gallery:  reversed(c.Gallery),
		Teachers: c.Teachers,
	}

	s.mu.Lock()
	s.news = display.News
	s.gallery = display.Gallery
	s.teachers = display.Teachers
	s.state = StateReady
	s.lastErr = ""
	s.mu.Unlock()

	if s.snap != nil {
		if err := s.snap.Save(display); err != nil {
			s.logger.Warn("content: snapshot save failed", slog.String("error", err.Error()))
		}
	}

	s.notify("content.updated")
	return nil
}

// Status returns the lifecycle state and, in the error state, the message
// of the failure that caused it.
func (s *Store) Status() (State, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.lastErr
}

// News returns a copy of the cached news collection, most recent first.
func (s *Store) News() []models.NewsItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.NewsItem(nil), s.news...)
}

// Gallery returns a copy of the cached gallery collection, most recent first.
func (s *Store) Gallery() []models.GalleryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.GalleryItem(nil), s.gallery...)
}

// Teachers returns a copy of the cached staff collection in sheet order.
func (s *Store) Teachers() []models.Teacher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Teacher(nil), s.teachers...)
}

// AddNews appends a news row and refetches; the server copy is the source
// of truth after any write.
func (s *Store) AddNews(ctx context.Context, fields map[string]any) error {
	if err := s.backend.Append(ctx, sheet.ActionNews, fields); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// AddGalleryItem appends a gallery row and refetches.
func (s *Store) AddGalleryItem(ctx context.Context, fields map[string]any) error {
	if err := s.backend.Append(ctx, sheet.ActionGallery, fields); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// AddTeacher appends a staff row and refetches.
func (s *Store) AddTeacher(ctx context.Context, fields map[string]any) error {
	if err := s.backend.Append(ctx, sheet.ActionTeacher, fields); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// UpdateTeacher edits an existing staff row (matched by id on the backend)
// and refetches.
func (s *Store) UpdateTeacher(ctx context.Context, fields map[string]any) error {
	if err := s.backend.Append(ctx, sheet.ActionEditTeacher, fields); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// DeleteNews removes a news item optimistically: the local copy is
// filtered immediately and restored verbatim if the backend delete fails.
func (s *Store) DeleteNews(ctx context.Context, id string) error {
	err := deleteOptimistic(&s.mu, &s.news, id,
		func(n models.NewsItem) string { return n.ID },
		func() error { return s.backend.Delete(ctx, sheet.CollectionNews, id) })
	if err == nil {
		s.notify("content.updated")
	}
	return err
}

// DeleteGalleryItem removes a gallery item optimistically.
func (s *Store) DeleteGalleryItem(ctx context.Context, id string) error {
	err := deleteOptimistic(&s.mu, &s.gallery, id,
		func(g models.GalleryItem) string { return g.ID },
		func() error { return s.backend.Delete(ctx, sheet.CollectionGallery, id) })
	if err == nil {
		s.notify("content.updated")
	}
	return err
}

// DeleteTeacher removes a staff entry optimistically.
func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	err := deleteOptimistic(&s.mu, &s.teachers, id,
		func(t models.Teacher) string { return t.ID },
		func() error { return s.backend.Delete(ctx, sheet.CollectionTeachers, id) })
	if err == nil {
		s.notify("content.updated")
	}
	return err
}

func (s *Store) notify(kind string) {
	if s.onChange != nil {
		s.onChange(kind)
	}
}

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
