package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/storage/memory"
)

func newTestServer() *Server {
	stores := analytics.Stores{
		Trades:       memory.NewTradeStore(),
		Strategies:   memory.NewStrategyStore(),
		Compliance:   memory.NewComplianceStore(),
		Transactions: memory.NewTransactionStore(),
		Accounts:     memory.NewAccountStore(),
		Summaries:    memory.NewPerformanceSummaryStore(),
	}
	engine := analytics.NewEngine(stores, nil)
	return NewServer(engine, stores, nil, nil, nil)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	data, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	mux := newTestServer().Routes()

	rec := doJSON(t, mux, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestCreateAndListAccounts(t *testing.T) {
	mux := newTestServer().Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/accounts", accountPayload{
		AccountID:      "acct-1",
		Name:           "Eval 50K",
		AccountType:    domain.AccountTypeFundedProgram,
		InitialCapital: 50000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Duplicate account is a conflict.
	rec = doJSON(t, mux, http.MethodPost, "/api/accounts", accountPayload{AccountID: "acct-1"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/accounts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	accounts := decodeBody[[]accountPayload](t, rec)
	if len(accounts) != 1 || accounts[0].AccountID != "acct-1" {
		t.Errorf("unexpected accounts %+v", accounts)
	}
	if accounts[0].CreatedAt == 0 {
		t.Error("created_at should default to now")
	}
}

func TestImportTradesAndSnapshot(t *testing.T) {
	mux := newTestServer().Routes()

	rec := doJSON(t, mux, http.MethodPost, "/api/accounts", accountPayload{
		AccountID:      "acct-1",
		AccountType:    domain.AccountTypeFundedProgram,
		InitialCapital: 10000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: %d", rec.Code)
	}

	trades := []tradePayload{
		{Symbol: "ES", Side: "long", EnteredAt: 1704189600000, NetPnL: ptr(300.0)},
		{Symbol: "NQ", Side: "short", EnteredAt: 1704276000000, NetPnL: ptr(-100.0)},
	}
	rec = doJSON(t, mux, http.MethodPost, "/api/accounts/acct-1/trades", trades)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import trades: %d, body %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[importResult](t, rec)
	if result.Imported != 2 {
		t.Errorf("imported = %d, want 2", result.Imported)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/accounts/acct-1/snapshot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot: %d, body %s", rec.Code, rec.Body.String())
	}
	snap := decodeBody[domain.AnalyticsSnapshot](t, rec)

	if snap.AccountID != "acct-1" {
		t.Errorf("account = %q", snap.AccountID)
	}
	if snap.Period != "all" {
		t.Errorf("period = %q, want all", snap.Period)
	}
	if len(snap.DailyBalance) != 2 {
		t.Fatalf("daily balance points = %d, want 2", len(snap.DailyBalance))
	}
	if snap.Balance.CurrentBalance != 10200 {
		t.Errorf("current balance = %v, want 10200", snap.Balance.CurrentBalance)
	}
}

func TestImportTradesIdempotentIDs(t *testing.T) {
	mux := newTestServer().Routes()

	doJSON(t, mux, http.MethodPost, "/api/accounts", accountPayload{AccountID: "acct-1"})

	trades := []tradePayload{{Symbol: "ES", EnteredAt: 1704189600000, NetPnL: ptr(50.0)}}
	rec := doJSON(t, mux, http.MethodPost, "/api/accounts/acct-1/trades", trades)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first import: %d", rec.Code)
	}

	// Same payload derives the same trade id and conflicts.
	rec = doJSON(t, mux, http.MethodPost, "/api/accounts/acct-1/trades", trades)
	if rec.Code != http.StatusConflict {
		t.Errorf("re-import status = %d, want 409", rec.Code)
	}
}

func TestComplianceSeriesEndpoint(t *testing.T) {
	mux := newTestServer().Routes()

	doJSON(t, mux, http.MethodPost, "/api/accounts", accountPayload{AccountID: "acct-1"})

	days := []compliancePayload{
		{Date: "2024-01-01", Respected: 3, NotRespected: 1},
		{Date: "2024-01-02", Respected: 2, NotRespected: 2},
	}
	rec := doJSON(t, mux, http.MethodPost, "/api/accounts/acct-1/compliance", days)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import compliance: %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/accounts/acct-1/compliance-series", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("series: %d", rec.Code)
	}

	var out struct {
		Granularity       string                     `json:"granularity"`
		ComplianceSeries  []domain.AggregationBucket `json:"compliance_series"`
		CumulativeAverage []float64                  `json:"cumulative_average"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Granularity != "day" {
		t.Errorf("granularity = %q, want day", out.Granularity)
	}
	if len(out.ComplianceSeries) != 2 {
		t.Fatalf("buckets = %d, want 2", len(out.ComplianceSeries))
	}
	if out.ComplianceSeries[0].ComplianceRate != 75 {
		t.Errorf("first bucket rate = %v, want 75", out.ComplianceSeries[0].ComplianceRate)
	}
	if len(out.CumulativeAverage) != 2 {
		t.Errorf("cumulative points = %d, want 2", len(out.CumulativeAverage))
	}
}

func TestStreaksEndpoint(t *testing.T) {
	mux := newTestServer().Routes()

	doJSON(t, mux, http.MethodPost, "/api/accounts", accountPayload{AccountID: "acct-1"})

	trades := make([]tradePayload, 3)
	for i := range trades {
		trades[i] = tradePayload{
			TradeID:   fmt.Sprintf("trade-%d", i),
			EnteredAt: 1704189600000 + int64(i)*60000,
			NetPnL:    ptr(10.0),
		}
	}
	rec := doJSON(t, mux, http.MethodPost, "/api/accounts/acct-1/trades", trades)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import trades: %d", rec.Code)
	}

	annotations := []strategyPayload{
		{TradeID: "trade-0", Name: "orb", Respected: ptr(true)},
		{TradeID: "trade-1", Name: "orb", Respected: ptr(true)},
		{TradeID: "trade-2", Name: "orb", Respected: ptr(false)},
	}
	rec = doJSON(t, mux, http.MethodPost, "/api/accounts/acct-1/strategies", annotations)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import strategies: %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/accounts/acct-1/streaks", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("streaks: %d", rec.Code)
	}
	streaks := decodeBody[domain.StreakSnapshot](t, rec)

	if streaks.Trade.MaxRespected != 2 {
		t.Errorf("max respected = %d, want 2", streaks.Trade.MaxRespected)
	}
	if streaks.Trade.CurrentNotRespected != 1 {
		t.Errorf("current not respected = %d, want 1", streaks.Trade.CurrentNotRespected)
	}
	if streaks.WinningDays != 1 {
		t.Errorf("winning days = %d, want 1", streaks.WinningDays)
	}
}

func TestTransactionsDriveLedgerBalance(t *testing.T) {
	mux := newTestServer().Routes()

	doJSON(t, mux, http.MethodPost, "/api/accounts", accountPayload{
		AccountID:      "acct-1",
		InitialCapital: 10000,
	})

	txns := []transactionPayload{
		{Type: domain.TransactionDeposit, Amount: 5000, OccurredAt: 1000},
		{Type: domain.TransactionWithdrawal, Amount: 2000, OccurredAt: 2000},
	}
	rec := doJSON(t, mux, http.MethodPost, "/api/accounts/acct-1/transactions", txns)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import transactions: %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/accounts/acct-1/balance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance: %d", rec.Code)
	}
	balance := decodeBody[domain.AccountBalance](t, rec)

	if !balance.FromLedger {
		t.Error("balance should come from the ledger")
	}
	if balance.CurrentBalance != 13000 {
		t.Errorf("current balance = %v, want 13000", balance.CurrentBalance)
	}
}

func TestInvalidImportPayload(t *testing.T) {
	mux := newTestServer().Routes()

	req := httptest.NewRequest(http.MethodPost, "/api/accounts/acct-1/trades", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid payload status = %d, want 400", rec.Code)
	}
}

func ptr[T any](v T) *T {
	return &v
}
