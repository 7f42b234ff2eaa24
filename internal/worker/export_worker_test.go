package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/sheets/memory"
	kvmemory "gastos/internal/storage/memory"
)

type failingExporter struct{ calls int }

func (f *failingExporter) Export(context.Context, []core.Expense) (string, error) {
	f.calls++
	return "", errors.New("quota exceeded")
}

func put(t *testing.T, kv *kvmemory.Store, data string) {
	t.Helper()
	if err := kv.Put(context.Background(), ledger.DefaultKey, []byte(data)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
}

func TestExportIfChangedSkipsUnchangedCollections(t *testing.T) {
	ctx := context.Background()
	kv := kvmemory.New()
	put(t, kv, `[{"id":"a","ano":"2024","mes":"Janeiro","categoria":"Food","descricao":"x","valor":"10.00"}]`)

	exp := memory.New()
	w := NewExportWorker(kv, "", exp)

	steps := []struct {
		name string
		data string
		want bool
	}{
		{"first export", "", true},
		{"unchanged", "", false},
		{"emptied", "[]", true},
	}
	for _, st := range steps {
		if st.data != "" {
			put(t, kv, st.data)
		}
		done, err := w.ExportIfChanged(ctx)
		if err != nil {
			t.Fatalf("%s: ExportIfChanged() error = %v", st.name, err)
		}
		if done != st.want {
			t.Fatalf("%s: exported = %v, want %v", st.name, done, st.want)
		}
	}

	last, n := exp.Last()
	if n != 2 {
		t.Errorf("exports = %d, want 2", n)
	}
	if len(last) != 0 {
		t.Errorf("last export = %+v, want empty", last)
	}
}

func TestExportDoesNotWriteLegacyDataBack(t *testing.T) {
	ctx := context.Background()
	kv := kvmemory.New()
	legacy := `[{"ano":"2024","mes":"Janeiro","categoria":"Food","descricao":"x","valor":"abc"}]`
	put(t, kv, legacy)

	exp := memory.New()
	if _, err := NewExportWorker(kv, ledger.DefaultKey, exp).ExportIfChanged(ctx); err != nil {
		t.Fatalf("ExportIfChanged() error = %v", err)
	}

	raw, err := kv.Get(ctx, ledger.DefaultKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(raw) != legacy {
		t.Errorf("stored collection was rewritten: %s", raw)
	}

	last, _ := exp.Last()
	if len(last) != 1 || last[0].Amount.String() != "0.00" {
		t.Errorf("unexpected export %+v", last)
	}
}

func TestFailedExportIsRetried(t *testing.T) {
	ctx := context.Background()
	f := &failingExporter{}
	w := NewExportWorker(kvmemory.New(), ledger.DefaultKey, f)

	if err := w.HandleCollectionSaved(ctx, &amqp.CollectionSavedMessage{Key: ledger.DefaultKey, Revision: 1}); err == nil {
		t.Fatal("expected the export error from the handler")
	}
	if _, err := w.ExportIfChanged(ctx); err == nil {
		t.Fatal("expected the export error on the periodic pass")
	}
	if f.calls != 2 {
		t.Errorf("calls = %d, want 2", f.calls)
	}
}

func TestHandleIgnoresOtherKeys(t *testing.T) {
	f := &failingExporter{}
	w := NewExportWorker(kvmemory.New(), ledger.DefaultKey, f)
	if err := w.HandleCollectionSaved(context.Background(), &amqp.CollectionSavedMessage{Key: "other"}); err != nil {
		t.Fatalf("HandleCollectionSaved() error = %v", err)
	}
	if f.calls != 0 {
		t.Errorf("calls = %d, want 0", f.calls)
	}
}

func TestRunPeriodicStopsOnCancel(t *testing.T) {
	exp := memory.New()
	w := NewExportWorker(kvmemory.New(), ledger.DefaultKey, exp)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := w.RunPeriodic(ctx, 10*time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunPeriodic() error = %v, want DeadlineExceeded", err)
	}
	// An absent collection is exported once as empty.
	if _, n := exp.Last(); n != 1 {
		t.Errorf("exports = %d, want 1", n)
	}
}
