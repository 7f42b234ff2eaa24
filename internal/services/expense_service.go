package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gastos/internal/core"
	"gastos/internal/ledger"
)

// Publisher announces collection rewrites to downstream consumers.
type Publisher interface {
	PublishCollectionSaved(ctx context.Context, key string, revision int64, count int) error
	Close() error
}

// ExpenseService orchestrates expense operations across the ledger and AMQP.
// Storage always comes first; a failed notification never fails a request.
type ExpenseService struct {
	store     *ledger.Store
	publisher Publisher
	key       string
	closers   []func() error
}

// NewExpenseService wires the store with an optional publisher (nil disables
// notifications).
func NewExpenseService(store *ledger.Store, publisher Publisher, key string) *ExpenseService {
	if key == "" {
		key = ledger.DefaultKey
	}
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		key:       key,
	}
}

// OnClose registers a cleanup to run when the service closes.
func (s *ExpenseService) OnClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Submit creates a record when cursor is empty and replaces the record the
// cursor points at otherwise.
func (s *ExpenseService) Submit(ctx context.Context, cursor string, input core.Expense) (core.Expense, error) {
	var (
		saved core.Expense
		err   error
		op    = "create"
	)
	if cursor == "" {
		saved, err = s.store.Add(ctx, input)
	} else {
		op = "update"
		saved, err = s.store.Replace(ctx, cursor, input)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("%s expense: %w", op, err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"operation", op,
		"expense_id", saved.ID,
		"year", saved.Year,
		"month", saved.Month,
		"category", saved.Category,
		"amount", saved.Amount.String())

	s.notify(ctx)
	return saved, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense deleted", "operation", "delete", "expense_id", id)
	s.notify(ctx)
	return nil
}

func (s *ExpenseService) Get(id string) (core.Expense, error) {
	return s.store.Get(id)
}

// List returns the full collection in insertion order.
func (s *ExpenseService) List() []core.Expense {
	return s.store.List()
}

// Filter derives a transient view; nothing is persisted.
func (s *ExpenseService) Filter(f core.Filter) []core.Expense {
	return f.Apply(s.store.List())
}

// Snapshot returns the persisted JSON form of the collection.
func (s *ExpenseService) Snapshot() ([]byte, error) {
	return s.store.Snapshot()
}

func (s *ExpenseService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *ExpenseService) notify(ctx context.Context) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping notification")
		return
	}
	if err := s.publisher.PublishCollectionSaved(ctx, s.key, s.store.Revision(), s.store.Len()); err != nil {
		slog.ErrorContext(ctx, "Failed to publish collection saved message",
			"key", s.key,
			"error", err)
	}
}

// IsNotFound reports whether err means the addressed record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ledger.ErrNotFound)
}

// Close releases the publisher and any registered resources.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	for _, fn := range s.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}

	return nil
}
