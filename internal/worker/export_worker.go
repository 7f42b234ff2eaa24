package worker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/sheets"
	"gastos/internal/storage"
)

// ExportWorker mirrors the stored collection to a spreadsheet. It reads the
// collection straight from storage and never writes it back.
type ExportWorker struct {
	kv       storage.KV
	key      string
	exporter sheets.Exporter

	mu           sync.Mutex
	lastChecksum string
}

func NewExportWorker(kv storage.KV, key string, exporter sheets.Exporter) *ExportWorker {
	if key == "" {
		key = ledger.DefaultKey
	}
	return &ExportWorker{kv: kv, key: key, exporter: exporter}
}

// HandleCollectionSaved processes one change notification from AMQP.
func (w *ExportWorker) HandleCollectionSaved(ctx context.Context, msg *amqp.CollectionSavedMessage) error {
	if msg.Key != "" && msg.Key != w.key {
		slog.DebugContext(ctx, "Ignoring message for another collection", "key", msg.Key)
		return nil
	}
	slog.InfoContext(ctx, "Processing collection saved message",
		"revision", msg.Revision,
		"count", msg.Count)

	if _, err := w.ExportIfChanged(ctx); err != nil {
		return fmt.Errorf("export revision %d: %w", msg.Revision, err)
	}
	return nil
}

// ExportIfChanged exports the collection unless it is byte-identical to the
// last successful export. It reports whether an export happened.
func (w *ExportWorker) ExportIfChanged(ctx context.Context) (bool, error) {
	raw, err := w.kv.Get(ctx, w.key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("read collection: %w", err)
	}

	sum := sha256.Sum256(raw)
	checksum := hex.EncodeToString(sum[:])

	w.mu.Lock()
	defer w.mu.Unlock()
	if checksum == w.lastChecksum {
		slog.DebugContext(ctx, "Collection unchanged since last export", "checksum", checksum[:12])
		return false, nil
	}

	var records []core.Expense
	if len(raw) > 0 {
		records, _, err = ledger.Decode(ctx, raw)
		if err != nil {
			return false, err
		}
	}

	ref, err := w.exporter.Export(ctx, records)
	if err != nil {
		return false, fmt.Errorf("export: %w", err)
	}
	w.lastChecksum = checksum

	slog.InfoContext(ctx, "Collection exported",
		"records", len(records),
		"sheets_ref", ref)
	return true, nil
}

// RunPeriodic exports on every tick until ctx is done, covering lost
// notifications and worker downtime.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ExportIfChanged(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}
