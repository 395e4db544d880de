// Package api exposes the user-facing HTTP surface: alert CRUD,
// analysis snapshots and market data lookups.
package api

import (
	"net/http"

	"tradewatch/internal/alerts"
	"tradewatch/internal/analysis"
	"tradewatch/internal/marketdata"
)

// Server bundles the services the HTTP handlers delegate to.
type Server struct {
	alerts   *alerts.Service
	analyzer *analysis.Analyzer
	data     *marketdata.Dispatcher
}

// NewServer creates the API server.
func NewServer(alertSvc *alerts.Service, analyzer *analysis.Analyzer, data *marketdata.Dispatcher) *Server {
	return &Server{alerts: alertSvc, analyzer: analyzer, data: data}
}

// Routes registers all API routes on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/alerts", s.handleAlerts)
	mux.HandleFunc("/api/v1/alerts/", s.handleAlertByID)
	mux.HandleFunc("/api/v1/analysis", s.handleAnalysis)
	mux.HandleFunc("/api/v1/scan", s.handleScan)
	mux.HandleFunc("/api/v1/tickers", s.handleTickers)
	mux.HandleFunc("/api/v1/symbols", s.handleSymbols)
	mux.HandleFunc("/api/v1/providers/health", s.handleProvidersHealth)
}
