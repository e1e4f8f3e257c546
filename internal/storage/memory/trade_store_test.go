package memory

import (
	"context"
	"errors"
	"testing"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage"
)

func TestTradeStore_InsertAndGet(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	pnl := 12.5
	trade := &domain.TradeRecord{
		TradeID:   "t1",
		AccountID: "acct-1",
		Symbol:    "ES",
		EnteredAt: 1000,
		TradeDay:  "2024-01-01",
		NetPnL:    &pnl,
	}

	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PnL() != 12.5 {
		t.Errorf("PnL mismatch: got %f, want 12.5", got.PnL())
	}

	// Mutating the returned copy must not affect the store.
	got.TradeDay = "mutated"
	again, _ := store.GetByID(ctx, "t1")
	if again.TradeDay != "2024-01-01" {
		t.Error("store returned a shared pointer instead of a copy")
	}
}

func TestTradeStore_DuplicateKey(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	trade := &domain.TradeRecord{TradeID: "t1", AccountID: "acct-1"}
	if err := store.Insert(ctx, trade); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if err := store.Insert(ctx, trade); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeStore_InsertBulkAtomic(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	batch := []*domain.TradeRecord{
		{TradeID: "t1", AccountID: "acct-1"},
		{TradeID: "t1", AccountID: "acct-1"}, // intra-batch duplicate
	}
	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// Nothing from the failed batch may be visible.
	if _, err := store.GetByID(ctx, "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("failed batch leaked a record: %v", err)
	}
}

func TestTradeStore_GetByAccountOrdering(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	_ = store.Insert(ctx, &domain.TradeRecord{TradeID: "b", AccountID: "acct-1", EnteredAt: 200})
	_ = store.Insert(ctx, &domain.TradeRecord{TradeID: "a", AccountID: "acct-1", EnteredAt: 100})
	_ = store.Insert(ctx, &domain.TradeRecord{TradeID: "z", AccountID: "acct-2", EnteredAt: 50})

	trades, err := store.GetByAccount(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetByAccount failed: %v", err)
	}
	if len(trades) != 2 || trades[0].TradeID != "a" || trades[1].TradeID != "b" {
		t.Errorf("wrong order or filtering: %+v", trades)
	}
}

func TestTradeStore_GetByAccountDateRange(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	_ = store.Insert(ctx, &domain.TradeRecord{TradeID: "t1", AccountID: "acct-1", TradeDay: "2024-01-01"})
	_ = store.Insert(ctx, &domain.TradeRecord{TradeID: "t2", AccountID: "acct-1", TradeDay: "2024-02-01"})
	_ = store.Insert(ctx, &domain.TradeRecord{TradeID: "t3", AccountID: "acct-1", TradeDay: "2024-03-01"})

	trades, err := store.GetByAccountDateRange(ctx, "acct-1", "2024-01-15", "2024-02-15")
	if err != nil {
		t.Fatalf("GetByAccountDateRange failed: %v", err)
	}
	if len(trades) != 1 || trades[0].TradeID != "t2" {
		t.Errorf("range filter wrong: %+v", trades)
	}

	// Open upper bound.
	trades, _ = store.GetByAccountDateRange(ctx, "acct-1", "2024-02-01", "")
	if len(trades) != 2 {
		t.Errorf("open upper bound wrong: %+v", trades)
	}
}

func TestTradeStore_InvalidInput(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil trade: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Insert(ctx, &domain.TradeRecord{TradeID: "t"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("missing account: expected ErrInvalidInput, got %v", err)
	}
}
