// Package history persists the capped list of past generations. Every
// backend stores the whole list as one JSON document under a single key and
// every save replaces it wholesale.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"nanobanana/internal/domain"
	"nanobanana/internal/infra"
)

// Key is the single key under which the list is persisted.
const Key = "nanoBananaHistory"

// Store is the persistence port for the history list.
type Store interface {
	Load(ctx context.Context) ([]domain.HistoryItem, error)
	Save(ctx context.Context, items []domain.HistoryItem) error
}

// Prepend returns a new list with item in front, truncated to limit. The
// input slice is not modified.
func Prepend(items []domain.HistoryItem, item domain.HistoryItem, limit int) []domain.HistoryItem {
	if limit <= 0 {
		limit = domain.HistoryLimit
	}
	keep := len(items)
	if keep > limit-1 {
		keep = limit - 1
	}
	out := make([]domain.HistoryItem, 0, keep+1)
	out = append(out, item)
	out = append(out, items[:keep]...)
	return out
}

// LoadOrEmpty loads the list once at startup. Read or parse failures are
// logged and yield an empty list.
func LoadOrEmpty(ctx context.Context, store Store, logger *infra.Logger) []domain.HistoryItem {
	log := infra.LoggerOrNop(logger)
	items, err := store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("history: load failed, starting empty")
		return []domain.HistoryItem{}
	}
	if items == nil {
		return []domain.HistoryItem{}
	}
	return items
}

func encode(items []domain.HistoryItem) ([]byte, error) {
	if len(items) > domain.HistoryLimit {
		return nil, fmt.Errorf("%w: %d items exceeds limit %d", domain.ErrPersistence, len(items), domain.HistoryLimit)
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%w: encode history: %v", domain.ErrPersistence, err)
	}
	return data, nil
}

func decode(data []byte) ([]domain.HistoryItem, error) {
	if len(data) == 0 {
		return []domain.HistoryItem{}, nil
	}
	var items []domain.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: decode history: %v", domain.ErrPersistence, err)
	}
	if items == nil {
		items = []domain.HistoryItem{}
	}
	return items, nil
}
