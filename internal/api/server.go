// Package api exposes the journal over HTTP: JSON read endpoints for the
// dashboard and bulk import endpoints for the data feeds.
package api

import (
	"errors"
	"log"
	"net/http"
	"os"

	"trade-journal-lab/internal/analytics"
	"trade-journal-lab/internal/cache"
	"trade-journal-lab/internal/observability"
	"trade-journal-lab/internal/realtime"
	"trade-journal-lab/internal/storage"
)

// Server wires the analytics engine, stores, cache and realtime hub into
// an HTTP surface.
type Server struct {
	engine *analytics.Engine
	stores analytics.Stores
	cache  cache.SnapshotCache
	hub    *realtime.Hub
	logger *log.Logger
}

// NewServer creates the API server. The cache and hub may be nil; a nil
// cache disables snapshot caching and a nil hub disables push events.
func NewServer(engine *analytics.Engine, stores analytics.Stores, snapCache cache.SnapshotCache, hub *realtime.Hub, logger *log.Logger) *Server {
	if snapCache == nil {
		snapCache = cache.NoopCache{}
	}
	if logger == nil {
		logger = log.New(os.Stdout, "[api] ", log.LstdFlags)
	}
	return &Server{
		engine: engine,
		stores: stores,
		cache:  snapCache,
		hub:    hub,
		logger: logger,
	}
}

// Routes builds the route table.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)

	mux.HandleFunc("GET /api/accounts/{id}/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/accounts/{id}/compliance-series", s.handleComplianceSeries)
	mux.HandleFunc("GET /api/accounts/{id}/streaks", s.handleStreaks)
	mux.HandleFunc("GET /api/accounts/{id}/best-worst", s.handleBestWorst)
	mux.HandleFunc("GET /api/accounts/{id}/consistency", s.handleConsistency)
	mux.HandleFunc("GET /api/accounts/{id}/balance", s.handleBalance)

	mux.HandleFunc("POST /api/accounts/{id}/trades", s.handleImportTrades)
	mux.HandleFunc("POST /api/accounts/{id}/strategies", s.handleImportStrategies)
	mux.HandleFunc("POST /api/accounts/{id}/compliance", s.handleImportCompliance)
	mux.HandleFunc("POST /api/accounts/{id}/transactions", s.handleImportTransactions)

	if s.hub != nil {
		mux.HandleFunc("GET /ws", s.hub.ServeWS)
	}

	return mux
}

// broadcast pushes an event when a hub is attached.
func (s *Server) broadcast(eventType, accountID string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastPayload(eventType, accountID, payload)
	observability.RecordBroadcast(eventType)
}

// invalidate drops cached snapshots after an import changed account data.
func (s *Server) invalidate(r *http.Request, accountID string) {
	if err := s.cache.Invalidate(r.Context(), accountID); err != nil {
		s.logger.Printf("cache invalidate for %s failed: %v", accountID, err)
	}
}

// storageStatus maps storage sentinel errors onto HTTP status codes.
func storageStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
