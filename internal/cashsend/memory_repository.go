package cashsend

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory history store used in tests and when
// running without Postgres.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string][]HistoryItem
}

// NewMemoryRepository builds an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string][]HistoryItem)}
}

func (r *MemoryRepository) Record(_ context.Context, userID string, item HistoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[userID] = append(r.items[userID], item)
	return nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string, limit int) ([]HistoryItem, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := append([]HistoryItem(nil), r.items[userID]...)
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
