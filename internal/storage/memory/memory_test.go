package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gastos/internal/storage"
)

func TestStoreGetPut(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.Get(ctx, "gastos"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	buf := []byte("[]")
	if err := s.Put(ctx, "gastos", buf); err != nil {
		t.Fatalf("put: %v", err)
	}
	buf[0] = 'x'
	got, _ := s.Get(ctx, "gastos")
	if string(got) != "[]" {
		t.Fatalf("store must keep its own copy, got %s", got)
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(`[{"ano":"2024"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFromFile(path, "gastos")
	got, err := s.Get(context.Background(), "gastos")
	if err != nil || string(got) != `[{"ano":"2024"}]` {
		t.Fatalf("seed not loaded: %s (err=%v)", got, err)
	}

	empty := NewFromFile(filepath.Join(t.TempDir(), "missing.json"), "gastos")
	if _, err := empty.Get(context.Background(), "gastos"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing seed file should leave the store empty, got %v", err)
	}
}
