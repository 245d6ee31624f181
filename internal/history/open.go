package history

import (
	"context"
	"fmt"
	"path/filepath"

	"nanobanana/internal/infra"
	"nanobanana/internal/storage"
)

// Open builds the backend selected by cfg. The returned close func is never nil.
func Open(ctx context.Context, cfg *infra.Config) (Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.HistoryBackend {
	case infra.HistoryBackendMemory:
		return NewMemoryStore(), noop, nil
	case infra.HistoryBackendSQLite:
		s, err := OpenSQLite(filepath.Join(cfg.HistoryPath, "history.db"))
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case infra.HistoryBackendRedis:
		s, err := OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case infra.HistoryBackendFile, "":
		files, err := storage.NewFileStore(cfg.HistoryPath)
		if err != nil {
			return nil, noop, err
		}
		return NewFileStore(files), noop, nil
	default:
		return nil, noop, fmt.Errorf("history: unsupported backend %q", cfg.HistoryBackend)
	}
}
