// Package ledger owns the in-memory expense collection and mirrors it,
// wholesale, to a storage.KV key after every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"gastos/internal/core"
	"gastos/internal/storage"
)

// DefaultKey is the key the browser version persisted under.
const DefaultKey = "gastos"

var ErrNotFound = errors.New("expense not found")

// Store is the single owner of the collection. Reads return copies so no
// caller can mutate the stored records.
type Store struct {
	mu       sync.RWMutex
	kv       storage.KV
	key      string
	items    []core.Expense
	revision int64
}

// storedRecord is the lenient decoding shape: valor may be a quoted
// decimal, a bare number or garbage, and id is absent in legacy data.
type storedRecord struct {
	ID          string `json:"id"`
	Year        string `json:"ano"`
	Month       string `json:"mes"`
	Category    string `json:"categoria"`
	Description string `json:"descricao"`
	Amount      any    `json:"valor"`
}

// Open loads the collection stored under key. An absent key yields an
// empty collection; so does an unreadable value, which is discarded.
func Open(ctx context.Context, kv storage.KV, key string) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{kv: kv, key: key, items: []core.Expense{}}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %q: %w", s.key, err)
	}

	items, dirty, err := Decode(ctx, raw)
	if err != nil {
		slog.WarnContext(ctx, "Discarding unreadable expense collection",
			"key", s.key,
			"bytes", len(raw),
			"error", err)
		return s.save(ctx)
	}
	s.items = items
	if dirty {
		return s.save(ctx)
	}
	return nil
}

// Decode parses a persisted collection without touching storage. Records
// lacking an identifier get a fresh one and non-numeric amounts become
// zero; dirty reports whether either happened.
func Decode(ctx context.Context, raw []byte) (items []core.Expense, dirty bool, err error) {
	var records []storedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("decode collection: %w", err)
	}

	items = make([]core.Expense, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		e := core.Expense{
			ID:          r.ID,
			Year:        r.Year,
			Month:       r.Month,
			Category:    r.Category,
			Description: r.Description,
		}
		if _, dup := seen[e.ID]; e.ID == "" || dup {
			e.ID = core.NewID()
			dirty = true
		}
		seen[e.ID] = struct{}{}

		amount, ok := decodeAmount(r.Amount)
		if !ok {
			slog.WarnContext(ctx, "Stored amount is not a number, using zero",
				"index", i,
				"expense_id", e.ID,
				"valor", fmt.Sprint(r.Amount))
			dirty = true
		}
		e.Amount = amount
		items = append(items, e)
	}
	return items, dirty, nil
}

func decodeAmount(v any) (core.Amount, bool) {
	var text string
	switch x := v.(type) {
	case string:
		text = x
	case float64:
		text = strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return core.ZeroAmount, false
	}
	a, err := core.ParseAmount(text)
	if err != nil {
		return core.ZeroAmount, false
	}
	return a, true
}

// save must be called with the write lock held (or before the store is shared).
func (s *Store) save(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("save %q: %w", s.key, err)
	}
	s.revision++
	return nil
}

// List returns the collection in insertion order.
func (s *Store) List() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Revision counts successful writes since the store was opened.
func (s *Store) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) Get(id string) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, ErrNotFound
	}
	return s.items[i], nil
}

// Add appends e under a new identifier and persists the collection.
func (s *Store) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = core.NewID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	if err := s.save(ctx); err != nil {
		s.items = s.items[:len(s.items)-1]
		return core.Expense{}, err
	}
	return e, nil
}

// Replace overwrites the record with id in place, keeping its position.
func (s *Store) Replace(ctx context.Context, id string, e core.Expense) (core.Expense, error) {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, ErrNotFound
	}
	old := s.items[i]
	s.items[i] = e
	if err := s.save(ctx); err != nil {
		s.items[i] = old
		return core.Expense{}, err
	}
	return e, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	prev := s.items
	next := make([]core.Expense, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)
	s.items = next
	if err := s.save(ctx); err != nil {
		s.items = prev
		return err
	}
	return nil
}

// Ping reports whether the backing storage is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Snapshot returns the persisted JSON form of the collection.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.Marshal(s.items)
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
