package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/cache"
	"trade-journal-lab/internal/domain"
	"trade-journal-lab/internal/observability"
	"trade-journal-lab/internal/storage"
)

// errorResponse is the JSON body for all error statuses.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleListAccounts returns all journal accounts.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.stores.Accounts.List(r.Context())
	if err != nil {
		s.logger.Printf("list accounts: %v", err)
		writeError(w, http.StatusInternalServerError, "list accounts failed")
		return
	}

	out := make([]accountPayload, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountToPayload(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateAccount registers a new account.
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var in accountPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid account payload")
		return
	}

	acct := in.toDomain()
	if acct.CreatedAt == 0 {
		acct.CreatedAt = time.Now().UnixMilli()
	}
	if acct.AccountType == "" {
		acct.AccountType = domain.AccountTypeStandard
	}

	if err := s.stores.Accounts.Insert(r.Context(), acct); err != nil {
		writeError(w, storageStatus(err), "create account failed")
		return
	}

	s.broadcast(realtimeAccountEvent, acct.AccountID, accountToPayload(acct))
	writeJSON(w, http.StatusCreated, accountToPayload(acct))
}

// computeSnapshot resolves a snapshot from cache or the engine.
func (s *Server) computeSnapshot(r *http.Request) (*domain.AnalyticsSnapshot, error) {
	q := analytics.Query{
		AccountID: r.PathValue("id"),
		From:      r.URL.Query().Get("from"),
		To:        r.URL.Query().Get("to"),
	}

	if cached, err := s.cache.Get(r.Context(), q.AccountID, q.Period()); err == nil {
		observability.RecordCacheHit()
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Printf("cache get for %s failed: %v", q.AccountID, err)
	} else {
		observability.RecordCacheMiss()
	}

	start := time.Now()
	snap, err := s.engine.Snapshot(r.Context(), q)
	if err != nil {
		observability.RecordSnapshot("error", time.Since(start), 0)
		return nil, err
	}
	observability.RecordSnapshot("ok", time.Since(start), len(snap.ComplianceSeries))

	if err := s.cache.Set(r.Context(), snap); err != nil {
		s.logger.Printf("cache set for %s failed: %v", q.AccountID, err)
	}
	return snap, nil
}

// snapshotHandler wraps a sub-view extraction over the computed snapshot.
func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request, view func(*domain.AnalyticsSnapshot) any) {
	snap, err := s.computeSnapshot(r)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid query")
			return
		}
		s.logger.Printf("snapshot for %s: %v", r.PathValue("id"), err)
		writeError(w, http.StatusInternalServerError, "snapshot computation failed")
		return
	}
	writeJSON(w, http.StatusOK, view(snap))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.snapshotHandler(w, r, func(snap *domain.AnalyticsSnapshot) any { return snap })
}

func (s *Server) handleComplianceSeries(w http.ResponseWriter, r *http.Request) {
	s.snapshotHandler(w, r, func(snap *domain.AnalyticsSnapshot) any {
		return struct {
			Granularity       string                     `json:"granularity"`
			ComplianceSeries  []domain.AggregationBucket `json:"compliance_series"`
			CumulativeAverage []float64                  `json:"cumulative_average"`
		}{snap.Granularity, snap.ComplianceSeries, snap.CumulativeAverage}
	})
}

func (s *Server) handleStreaks(w http.ResponseWriter, r *http.Request) {
	s.snapshotHandler(w, r, func(snap *domain.AnalyticsSnapshot) any { return snap.Streaks })
}

func (s *Server) handleBestWorst(w http.ResponseWriter, r *http.Request) {
	s.snapshotHandler(w, r, func(snap *domain.AnalyticsSnapshot) any { return snap.BestWorst })
}

func (s *Server) handleConsistency(w http.ResponseWriter, r *http.Request) {
	s.snapshotHandler(w, r, func(snap *domain.AnalyticsSnapshot) any {
		// Explicit null when the rule doesn't apply (standard account,
		// no profit yet) keeps the dashboard contract simple.
		return struct {
			Consistency *domain.ConsistencyTarget `json:"consistency"`
		}{snap.Consistency}
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	s.snapshotHandler(w, r, func(snap *domain.AnalyticsSnapshot) any { return snap.Balance })
}
