package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nanobanana/internal/domain"
)

// RedisStore keeps the list under one Redis string key.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// OpenRedis connects using a redis:// or rediss:// URL and verifies the
// connection with PING.
func OpenRedis(ctx context.Context, rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("history: parse redis url: %w", err)
	}
	opts.DialTimeout = 10 * time.Second
	opts.ReadTimeout = 5 * time.Second
	opts.WriteTimeout = 5 * time.Second

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("history: redis ping: %w", err)
	}
	return NewRedisStore(rdb), nil
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, key: Key}
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *RedisStore) Load(ctx context.Context) ([]domain.HistoryItem, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.HistoryItem{}, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return decode(data)
}

func (s *RedisStore) Save(ctx context.Context, items []domain.HistoryItem) error {
	data, err := encode(items)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
