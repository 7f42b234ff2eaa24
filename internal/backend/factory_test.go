package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gastos/internal/config"
	"gastos/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "redis", RedisAddr: "r:6379", RedisDB: 2, StorageKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != RedisBackend || cfg.RedisAddr != "r:6379" || cfg.RedisDB != 2 || cfg.StorageKey != "k" {
		t.Fatalf("unexpected backend config %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		cfg Config
		ok  bool
	}{
		{Config{Type: MemoryBackend}, true},
		{Config{Type: SQLiteBackend}, false},
		{Config{Type: RedisBackend}, false},
		{Config{Type: PostgresBackend}, false},
		{Config{Type: "sheets"}, false},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.ok != (err == nil) {
			t.Errorf("Validate(%s) = %v, want ok=%v", tc.cfg.Type, err, tc.ok)
		}
	}
}

func TestCreateMemoryBackendWithSeed(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.json")
	data := `[{"ano":"2024","mes":"Janeiro","categoria":"Food","descricao":"Lunch","valor":"10.00"}]`
	if err := os.WriteFile(seed, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, MemorySeedFile: seed, StorageKey: "gastos"})
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	defer res.Cleanup()

	list := res.Backend.List()
	if len(list) != 1 || list[0].Amount.String() != "10.00" || list[0].ID == "" {
		t.Fatalf("unexpected seeded collection %+v", list)
	}
}

func TestCreateSQLiteBackendPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "gastos.db"), StorageKey: "gastos"}

	res, err := NewFactory(nil).CreateBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("create backend: %v", err)
	}
	e := core.Expense{Year: "2024", Month: "Maio", Category: "Casa", Amount: core.MustParseAmount("3")}
	saved, err := res.Backend.Submit(ctx, "", e)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	res, err = NewFactory(nil).CreateBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen backend: %v", err)
	}
	defer res.Cleanup()
	got, err := res.Backend.Get(saved.ID)
	if err != nil || got.Amount.String() != "3.00" {
		t.Fatalf("record not persisted: %+v (err=%v)", got, err)
	}
}
