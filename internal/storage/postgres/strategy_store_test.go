package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

func TestStrategyStore_InsertAndLookup(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStrategyStore(pool)

	require.NoError(t, store.Insert(ctx, &domain.StrategyRecord{
		TradeID:   "trade-1",
		AccountID: "acct-1",
		Name:      "opening range breakout",
		Respected: domain.VerdictRespected,
	}))
	require.NoError(t, store.Insert(ctx, &domain.StrategyRecord{
		TradeID:   "trade-2",
		AccountID: "acct-1",
		Name:      "opening range breakout",
		Respected: domain.VerdictNotRespected,
	}))
	require.NoError(t, store.Insert(ctx, &domain.StrategyRecord{
		TradeID:   "trade-3",
		AccountID: "acct-1",
		Respected: domain.VerdictUnrecorded,
	}))

	lookup, err := store.GetByTradeIDs(ctx, []string{"trade-1", "trade-2", "trade-3", "trade-absent"})
	require.NoError(t, err)
	require.Len(t, lookup, 3)

	assert.Equal(t, domain.VerdictRespected, lookup.VerdictFor("trade-1"))
	assert.Equal(t, domain.VerdictNotRespected, lookup.VerdictFor("trade-2"))
	assert.Equal(t, domain.VerdictUnrecorded, lookup.VerdictFor("trade-3"))

	// Trades without an annotation read as unrecorded.
	assert.Equal(t, domain.VerdictUnrecorded, lookup.VerdictFor("trade-absent"))
}

func TestStrategyStore_GetByAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStrategyStore(pool)

	require.NoError(t, store.Insert(ctx, &domain.StrategyRecord{
		TradeID: "trade-a", AccountID: "acct-a", Respected: domain.VerdictRespected,
	}))
	require.NoError(t, store.Insert(ctx, &domain.StrategyRecord{
		TradeID: "trade-b", AccountID: "acct-b", Respected: domain.VerdictRespected,
	}))

	lookup, err := store.GetByAccount(ctx, "acct-a")
	require.NoError(t, err)
	require.Len(t, lookup, 1)
	assert.Contains(t, lookup, "trade-a")
}

func TestStrategyStore_DuplicateTrade(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStrategyStore(pool)

	rec := &domain.StrategyRecord{TradeID: "trade-dup", AccountID: "acct-1", Respected: domain.VerdictRespected}
	require.NoError(t, store.Insert(ctx, rec))

	err := store.Insert(ctx, &domain.StrategyRecord{TradeID: "trade-dup", AccountID: "acct-1"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestStrategyStore_EmptyTradeIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStrategyStore(pool)

	lookup, err := store.GetByTradeIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, lookup)
}
