package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"nanobanana/internal/domain"
	"nanobanana/internal/storage"
)

func sampleItem(id int64) domain.HistoryItem {
	return domain.HistoryItem{
		ID:        id,
		Prompt:    fmt.Sprintf("prompt %d", id),
		Style:     string(domain.StyleComicArt),
		ResultURL: "data:image/png;base64,iVBORw0KGgo=",
		BaseImage: "data:image/jpeg;base64,/9j/4AAQ",
	}
}

func TestPrependCapsAndOrders(t *testing.T) {
	var items []domain.HistoryItem
	for i := int64(1); i <= 13; i++ {
		items = Prepend(items, sampleItem(i), domain.HistoryLimit)
		if len(items) > domain.HistoryLimit {
			t.Fatalf("history grew past limit: %d", len(items))
		}
	}
	if len(items) != domain.HistoryLimit {
		t.Fatalf("expected %d items, got %d", domain.HistoryLimit, len(items))
	}
	for i, item := range items {
		want := int64(13 - i)
		if item.ID != want {
			t.Fatalf("items[%d].ID = %d, want %d", i, item.ID, want)
		}
	}
	for _, item := range items {
		if item.ID <= 3 {
			t.Fatalf("evicted item %d still present", item.ID)
		}
	}
}

func TestPrependDoesNotMutateInput(t *testing.T) {
	original := []domain.HistoryItem{sampleItem(2), sampleItem(1)}
	snapshot := append([]domain.HistoryItem(nil), original...)

	out := Prepend(original, sampleItem(3), domain.HistoryLimit)
	out[1].Prompt = "changed"

	if !reflect.DeepEqual(original, snapshot) {
		t.Fatalf("input mutated: %#v", original)
	}
}

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	files, err := storage.NewFileStore(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	sqliteStore, err := OpenSQLite(filepath.Join(dir, "db", "history.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(files),
		"sqlite": sqliteStore,
	}
	if url := os.Getenv("HISTORY_TEST_REDIS_URL"); url != "" {
		redisStore, err := OpenRedis(ctx, url)
		if err != nil {
			t.Fatalf("OpenRedis: %v", err)
		}
		t.Cleanup(func() { _ = redisStore.Close() })
		stores["redis"] = redisStore
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			empty, err := store.Load(ctx)
			if err != nil && name != "redis" {
				t.Fatalf("Load on empty store: %v", err)
			}
			if name != "redis" && len(empty) != 0 {
				t.Fatalf("expected empty history, got %d items", len(empty))
			}

			var items []domain.HistoryItem
			for i := int64(1); i <= 4; i++ {
				items = Prepend(items, sampleItem(i), domain.HistoryLimit)
			}
			if err := store.Save(ctx, items); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, items) {
				t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, items)
			}

			// Saves replace the whole list.
			if err := store.Save(ctx, items[:1]); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err = store.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(got) != 1 || got[0].ID != items[0].ID {
				t.Fatalf("expected full replace, got %#v", got)
			}
		})
	}
}

func TestSaveRejectsOversizedList(t *testing.T) {
	items := make([]domain.HistoryItem, domain.HistoryLimit+1)
	err := NewMemoryStore().Save(context.Background(), items)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestLoadOrEmptyOnCorruptDocument(t *testing.T) {
	ctx := context.Background()
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := files.Write(ctx, Key+".json", []byte("{not json")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	store := NewFileStore(files)
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence from Load, got %v", err)
	}

	items := LoadOrEmpty(ctx, store, nil)
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", items)
	}
}
