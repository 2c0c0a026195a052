package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/julianstephens/wellmeing/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "wellmeing.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadUninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetSettings()
	if err != nil || settings != (storage.Settings{}) {
		t.Fatalf("expected empty settings, got %+v, %v", settings, err)
	}
	want := storage.Settings{UserID: "u1", Model: "gpt-4o-mini"}
	if err := s.SaveSettings(want); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.GetSettings(); got != want {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if doc, err := s.GetDocument(ctx, "u1"); err != nil || doc != nil {
		t.Fatalf("expected nil document, got %v, %v", doc, err)
	}

	stored, err := s.UpdateDocument(ctx, "u1", func(doc map[string]any) error {
		doc["name"] = "Alice"
		return storage.SetPath(doc, map[string]any{"title": "Week 19", "content": "Good."}, "reports", "2025-05-12T00:00:00")
	})
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	path := s.GetConfigPath()
	s.Close()
	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetDocument(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, stored) {
		t.Errorf("GetDocument() = %v, want %v", got, stored)
	}
}

func TestUpdateAbortsOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if _, err := s.UpdateDocument(ctx, "u1", func(doc map[string]any) error {
		doc["name"] = "Alice"
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	if _, err := s.UpdateDocument(ctx, "u1", func(doc map[string]any) error {
		doc["name"] = "Mallory"
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if doc, _ := s.GetDocument(ctx, "u1"); doc["name"] != "Alice" {
		t.Errorf("aborted update was written: %v", doc)
	}

	if err := s.DeleteDocument(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if doc, _ := s.GetDocument(ctx, "u1"); doc != nil {
		t.Errorf("expected deleted document, got %v", doc)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.UpdateDocument(ctx, "u1", func(doc map[string]any) error {
				return storage.SetPath(doc, "x", "habits", string(rune('A'+i)))
			})
			if err != nil {
				t.Errorf("writer %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	doc, err := s.GetDocument(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	habits, _ := doc["habits"].(map[string]any)
	if len(habits) != writers {
		t.Errorf("expected %d habits after concurrent updates, got %d", writers, len(habits))
	}
}
