package history

import (
	"context"
	"errors"
	"fmt"

	"nanobanana/internal/domain"
	"nanobanana/internal/storage"
)

// FileStore persists the list as <base>/nanoBananaHistory.json.
type FileStore struct {
	files *storage.FileStore
	key   string
}

func NewFileStore(files *storage.FileStore) *FileStore {
	return &FileStore{files: files, key: Key + ".json"}
}

func (s *FileStore) Load(ctx context.Context) ([]domain.HistoryItem, error) {
	data, err := s.files.Read(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []domain.HistoryItem{}, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return decode(data)
}

func (s *FileStore) Save(ctx context.Context, items []domain.HistoryItem) error {
	data, err := encode(items)
	if err != nil {
		return err
	}
	if _, err := s.files.Write(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
