package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"gastos/internal/storage"
)

// Runs only when GASTOS_TEST_REDIS_ADDR points at a disposable Redis.
func TestStoreIntegration(t *testing.T) {
	addr := os.Getenv("GASTOS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GASTOS_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := New(ctx, Config{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	key := "gastos-test-" + time.Now().Format("150405.000000")
	if _, err := s.Get(ctx, key); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Put(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil || string(got) != `[]` {
		t.Fatalf("get: %s (err=%v)", got, err)
	}
	s.client.Del(key)
}
