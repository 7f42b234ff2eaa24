package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/storage"
	"gastos/internal/storage/memory"
)

type failingKV struct {
	*memory.Store
	failPut bool
}

func (f *failingKV) Put(ctx context.Context, key string, value []byte) error {
	if f.failPut {
		return errors.New("disk full")
	}
	return f.Store.Put(ctx, key, value)
}

func lunch() core.Expense {
	return core.Expense{Year: "2024", Month: "Janeiro", Category: "Food", Description: "Lunch", Amount: core.MustParseAmount("10")}
}

func persisted(t *testing.T, kv storage.KV) []core.Expense {
	t.Helper()
	raw, err := kv.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	var out []core.Expense
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestOpenAbsentKeyIsEmpty(t *testing.T) {
	s, err := Open(context.Background(), memory.New(), "")
	require.NoError(t, err)
	require.Empty(t, s.List())
	require.Equal(t, int64(0), s.Revision())
}

func TestOpenUnparseableDiscardsValue(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Put(ctx, DefaultKey, []byte(`{not json`)))

	s, err := Open(ctx, kv, DefaultKey)
	require.NoError(t, err)
	require.Empty(t, s.List())

	raw, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}

func TestOpenLegacyRecordsGetIdentifiers(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	legacy := `[{"ano":"2024","mes":"Janeiro","categoria":"Food","descricao":"Lunch","valor":"10.00"},
	            {"ano":"2024","mes":"Maio","categoria":"Casa","descricao":"Luz","valor":"NaN"},
	            {"ano":"2023","mes":"Abril","categoria":"Casa","descricao":"Gás","valor":42.5}]`
	require.NoError(t, kv.Put(ctx, DefaultKey, []byte(legacy)))

	s, err := Open(ctx, kv, DefaultKey)
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 3)
	for _, e := range list {
		require.NotEmpty(t, e.ID)
	}
	require.Equal(t, "10.00", list[0].Amount.String())
	require.Equal(t, "0.00", list[1].Amount.String(), "non-numeric amounts are coerced to zero")
	require.Equal(t, "42.50", list[2].Amount.String())

	stored := persisted(t, kv)
	require.Equal(t, list[0].ID, stored[0].ID, "assigned identifiers are persisted")
}

func TestAddAppendsAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s, err := Open(ctx, kv, DefaultKey)
	require.NoError(t, err)

	first, err := s.Add(ctx, lunch())
	require.NoError(t, err)
	second := lunch()
	second.Month = "Fevereiro"
	added, err := s.Add(ctx, second)
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID)
	require.Equal(t, added.ID, list[1].ID, "new records are appended at the end")
	require.Equal(t, "10.00", list[0].Amount.String())
	require.Len(t, persisted(t, kv), 2)
	require.Equal(t, int64(2), s.Revision())
}

func TestAddRejectsInvalidRecord(t *testing.T) {
	s, err := Open(context.Background(), memory.New(), DefaultKey)
	require.NoError(t, err)

	bad := lunch()
	bad.Month = "Jan"
	_, err = s.Add(context.Background(), bad)
	require.ErrorIs(t, err, core.ErrInvalidMonth)
	require.Zero(t, s.Len())
}

func TestReplaceKeepsPositionAndLength(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s, err := Open(ctx, kv, DefaultKey)
	require.NoError(t, err)

	a, _ := s.Add(ctx, lunch())
	b, _ := s.Add(ctx, lunch())
	_, _ = s.Add(ctx, lunch())

	edit := lunch()
	edit.Description = "Dinner"
	edit.Amount = core.MustParseAmount("25.5")
	updated, err := s.Replace(ctx, b.ID, edit)
	require.NoError(t, err)
	require.Equal(t, b.ID, updated.ID)

	list := s.List()
	require.Len(t, list, 3)
	require.Equal(t, a.ID, list[0].ID)
	require.Equal(t, "Dinner", list[1].Description)
	require.Equal(t, "25.50", list[1].Amount.String())
	require.Equal(t, "Dinner", persisted(t, kv)[1].Description)

	_, err = s.Replace(ctx, "missing", edit)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s, err := Open(ctx, kv, DefaultKey)
	require.NoError(t, err)

	a, _ := s.Add(ctx, lunch())
	b, _ := s.Add(ctx, lunch())
	c, _ := s.Add(ctx, lunch())

	require.NoError(t, s.Delete(ctx, b.ID))
	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, a.ID, list[0].ID)
	require.Equal(t, c.ID, list[1].ID)
	require.Len(t, persisted(t, kv), 2)

	_, err = s.Get(b.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, b.ID), ErrNotFound)
}

func TestFailedSaveRollsBack(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{Store: memory.New()}
	s, err := Open(ctx, kv, DefaultKey)
	require.NoError(t, err)
	a, err := s.Add(ctx, lunch())
	require.NoError(t, err)

	kv.failPut = true
	_, err = s.Add(ctx, lunch())
	require.Error(t, err)
	require.Equal(t, 1, s.Len())

	edit := lunch()
	edit.Category = "Other"
	_, err = s.Replace(ctx, a.ID, edit)
	require.Error(t, err)
	got, _ := s.Get(a.ID)
	require.Equal(t, "Food", got.Category)

	require.Error(t, s.Delete(ctx, a.ID))
	require.Equal(t, 1, s.Len())
}

func TestListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, memory.New(), DefaultKey)
	require.NoError(t, err)
	_, _ = s.Add(ctx, lunch())

	list := s.List()
	list[0].Category = "mutated"
	require.Equal(t, "Food", s.List()[0].Category)
}
