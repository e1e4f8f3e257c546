package api

import (
	"encoding/json"
	"net/http"

	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/idhash"
	"trade-journal-lab/internal/observability"
	"trade-journal-lab/internal/realtime"
)

// Realtime event types reused from the hub.
const (
	realtimeAccountEvent  = realtime.EventAccountUpdated
	realtimeTradesEvent   = realtime.EventTradesImported
	realtimeSnapshotEvent = realtime.EventSnapshotComputed
)

// accountPayload is the wire form of a journal account.
type accountPayload struct {
	AccountID      string  `json:"account_id"`
	Name           string  `json:"name"`
	AccountType    string  `json:"account_type"`
	InitialCapital float64 `json:"initial_capital"`
	CreatedAt      int64   `json:"created_at"`
}

func accountToPayload(a *domain.Account) accountPayload {
	return accountPayload{
		AccountID:      a.AccountID,
		Name:           a.Name,
		AccountType:    a.AccountType,
		InitialCapital: a.InitialCapital,
		CreatedAt:      a.CreatedAt,
	}
}

func (p accountPayload) toDomain() *domain.Account {
	return &domain.Account{
		AccountID:      p.AccountID,
		Name:           p.Name,
		AccountType:    p.AccountType,
		InitialCapital: p.InitialCapital,
		CreatedAt:      p.CreatedAt,
	}
}

// tradePayload is the wire form of one imported trade. trade_id may be
// omitted; a deterministic one is derived so re-imports collide instead of
// duplicating.
type tradePayload struct {
	TradeID      string   `json:"trade_id"`
	Symbol       string   `json:"symbol"`
	Side         string   `json:"side"`
	EnteredAt    int64    `json:"entered_at"`
	TradeDay     string   `json:"trade_day,omitempty"`
	NetPnL       *float64 `json:"net_pnl"`
	IsProfitable *bool    `json:"is_profitable"`
}

// importResult reports how many records an import accepted.
type importResult struct {
	Imported int `json:"imported"`
}

// handleImportTrades bulk-imports trades for an account.
func (s *Server) handleImportTrades(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	var payload []tradePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		observability.RecordImportError("trade", "decode")
		writeError(w, http.StatusBadRequest, "invalid trade payload")
		return
	}

	trades := make([]*domain.TradeRecord, 0, len(payload))
	for i, p := range payload {
		tradeID := p.TradeID
		if tradeID == "" {
			tradeID = idhash.ComputeTradeID(accountID, p.Symbol, p.EnteredAt, i)
		}
		trades = append(trades, &domain.TradeRecord{
			TradeID:      tradeID,
			AccountID:    accountID,
			Symbol:       p.Symbol,
			Side:         p.Side,
			EnteredAt:    p.EnteredAt,
			TradeDay:     p.TradeDay,
			NetPnL:       p.NetPnL,
			IsProfitable: p.IsProfitable,
		})
	}

	if err := s.stores.Trades.InsertBulk(r.Context(), trades); err != nil {
		observability.RecordImportError("trade", "store")
		writeError(w, storageStatus(err), "trade import failed")
		return
	}

	observability.RecordTradesImported(len(trades))
	s.invalidate(r, accountID)
	s.broadcast(realtimeTradesEvent, accountID, importResult{Imported: len(trades)})
	writeJSON(w, http.StatusCreated, importResult{Imported: len(trades)})
}

// strategyPayload is the wire form of one strategy annotation. respected is
// tri-state: absent/null means the trader never recorded a verdict.
type strategyPayload struct {
	TradeID   string `json:"trade_id"`
	Name      string `json:"name"`
	Respected *bool  `json:"respected"`
}

// handleImportStrategies imports per-trade strategy annotations.
func (s *Server) handleImportStrategies(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	var payload []strategyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		observability.RecordImportError("strategy", "decode")
		writeError(w, http.StatusBadRequest, "invalid strategy payload")
		return
	}

	for _, p := range payload {
		rec := &domain.StrategyRecord{
			TradeID:   p.TradeID,
			AccountID: accountID,
			Name:      p.Name,
			Respected: domain.ParseVerdict(p.Respected),
		}
		if err := s.stores.Strategies.Insert(r.Context(), rec); err != nil {
			observability.RecordImportError("strategy", "store")
			writeError(w, storageStatus(err), "strategy import failed")
			return
		}
	}

	observability.DefaultMetrics.StrategiesImported.Add(float64(len(payload)))
	s.invalidate(r, accountID)
	s.broadcast(realtimeAccountEvent, accountID, importResult{Imported: len(payload)})
	writeJSON(w, http.StatusCreated, importResult{Imported: len(payload)})
}

// compliancePayload is the wire form of one daily compliance row.
type compliancePayload struct {
	Date         string   `json:"date"`
	Respected    int      `json:"respected"`
	NotRespected int      `json:"not_respected"`
	LegacyRate   *float64 `json:"legacy_rate,omitempty"`
	LegacyTotal  *int     `json:"legacy_total,omitempty"`
}

// handleImportCompliance bulk-imports daily compliance rows.
func (s *Server) handleImportCompliance(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	var payload []compliancePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		observability.RecordImportError("compliance", "decode")
		writeError(w, http.StatusBadRequest, "invalid compliance payload")
		return
	}

	days := make([]*domain.DailyComplianceRecord, 0, len(payload))
	for _, p := range payload {
		days = append(days, &domain.DailyComplianceRecord{
			AccountID:    accountID,
			Date:         p.Date,
			Respected:    p.Respected,
			NotRespected: p.NotRespected,
			LegacyRate:   p.LegacyRate,
			LegacyTotal:  p.LegacyTotal,
		})
	}

	if err := s.stores.Compliance.InsertBulk(r.Context(), days); err != nil {
		observability.RecordImportError("compliance", "store")
		writeError(w, storageStatus(err), "compliance import failed")
		return
	}

	observability.DefaultMetrics.ComplianceImported.Add(float64(len(days)))
	s.invalidate(r, accountID)
	s.broadcast(realtimeAccountEvent, accountID, importResult{Imported: len(days)})
	writeJSON(w, http.StatusCreated, importResult{Imported: len(days)})
}

// transactionPayload is the wire form of one ledger entry.
type transactionPayload struct {
	TransactionID string  `json:"transaction_id"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	OccurredAt    int64   `json:"occurred_at"`
}

// handleImportTransactions imports ledger entries for an account.
func (s *Server) handleImportTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	var payload []transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		observability.RecordImportError("transaction", "decode")
		writeError(w, http.StatusBadRequest, "invalid transaction payload")
		return
	}

	for _, p := range payload {
		txnID := p.TransactionID
		if txnID == "" {
			txnID = idhash.ComputeTransactionID(accountID, p.Type, p.Amount, p.OccurredAt)
		}
		txn := &domain.Transaction{
			TransactionID: txnID,
			AccountID:     accountID,
			Type:          p.Type,
			Amount:        p.Amount,
			OccurredAt:    p.OccurredAt,
		}
		if err := s.stores.Transactions.Insert(r.Context(), txn); err != nil {
			observability.RecordImportError("transaction", "store")
			writeError(w, storageStatus(err), "transaction import failed")
			return
		}
	}

	observability.DefaultMetrics.TransactionsImported.Add(float64(len(payload)))
	s.invalidate(r, accountID)
	s.broadcast(realtimeAccountEvent, accountID, importResult{Imported: len(payload)})
	writeJSON(w, http.StatusCreated, importResult{Imported: len(payload)})
}
