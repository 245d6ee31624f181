package history

import (
	"context"
	"sync"

	"nanobanana/internal/domain"
)

// MemoryStore keeps the encoded list in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) ([]domain.HistoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	data := append([]byte(nil), m.data...)
	m.mu.Unlock()
	return decode(data)
}

func (m *MemoryStore) Save(ctx context.Context, items []domain.HistoryItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(items)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
