package content

import (
	"sync"

	"github.com/sdn3bangkuang/sekolahku/internal/apperr"
)

// deleteOptimistic filters the item with the given id out of *list under
// the lock, then runs commit. When commit fails the exact pre-removal
// slice is restored, preserving the original order, and the error is
// returned for the caller to surface. An id with no matching item yields
// apperr.ErrNotFound without touching the backend.
func deleteOptimistic[T any](mu *sync.RWMutex, list *[]T, id string, idOf func(T) string, commit func() error) error {
	mu.Lock()
	prev := *list
	next := make([]T, 0, len(prev))
	for _, item := range prev {
		if idOf(item) != id {
			next = append(next, item)
		}
	}
	if len(next) == len(prev) {
		mu.Unlock()
		return apperr.ErrNotFound
	}
	*list = next
	mu.Unlock()

	if err := commit(); err != nil {
		mu.Lock()
		*list = prev
		mu.Unlock()
		return err
	}
	return nil
}
