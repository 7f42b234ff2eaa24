package memory

import (
	"context"
	"testing"

	"gastos/internal/core"
)

func TestExporterKeepsLastSnapshot(t *testing.T) {
	e := New()
	ctx := context.Background()

	ref, err := e.Export(ctx, []core.Expense{{ID: "a"}, {ID: "b"}})
	if err != nil || ref != "mem:1" {
		t.Fatalf("first export: ref=%q err=%v", ref, err)
	}
	records := []core.Expense{{ID: "c"}}
	if _, err := e.Export(ctx, records); err != nil {
		t.Fatalf("second export: %v", err)
	}
	records[0].ID = "mutated"

	last, n := e.Last()
	if n != 2 || len(last) != 1 || last[0].ID != "c" {
		t.Fatalf("unexpected snapshot %+v after %d exports", last, n)
	}
}
