package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"tradewatch/internal/alerts"
	"tradewatch/internal/model"
)

// ownerID resolves the calling owner. Single-tenant deployments omit
// the header and share the "local" owner.
func ownerID(r *http.Request) string {
	if v := r.Header.Get("X-Owner-ID"); v != "" {
		return v
	}
	return "local"
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrAlertNotFound):
		code = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidCondition):
		code = http.StatusBadRequest
	case errors.Is(err, model.ErrDataUnavailable):
		code = http.StatusBadGateway
	case model.IsInsufficientData(err):
		code = http.StatusUnprocessableEntity
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// handleAlerts serves POST /api/v1/alerts and GET /api/v1/alerts.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var params alerts.CreateParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		alert, err := s.alerts.Create(r.Context(), ownerID(r), params)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, alert)

	case http.MethodGet:
		var (
			list []model.Alert
			err  error
		)
		if r.URL.Query().Get("active") == "true" {
			list, err = s.alerts.ListActive(r.Context(), ownerID(r))
		} else {
			list, err = s.alerts.List(r.Context(), ownerID(r))
		}
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []model.Alert{}
		}
		writeJSON(w, http.StatusOK, list)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAlertByID serves GET/DELETE /api/v1/alerts/{id} and
// POST /api/v1/alerts/{id}/cancel.
func (s *Server) handleAlertByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/alerts/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if len(parts) == 2 && parts[1] == "cancel" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		alert, err := s.alerts.Cancel(r.Context(), id, ownerID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, alert)
		return
	}
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		alert, err := s.alerts.Get(r.Context(), id, ownerID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, alert)

	case http.MethodDelete:
		if err := s.alerts.Delete(r.Context(), id, ownerID(r)); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAnalysis serves GET /api/v1/analysis?symbol=X&timeframe=1h.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "symbol is required"})
		return
	}
	tf := model.Timeframe(r.URL.Query().Get("timeframe"))

	snap, err := s.analyzer.Analyze(r.Context(), symbol, tf, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleScan serves GET /api/v1/scan?symbol=X.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "symbol is required"})
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.QuickScan(r.Context(), symbol))
}

// handleTickers serves GET /api/v1/tickers?symbols=BTCUSDT,EUR/USD.
func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "symbols is required"})
		return
	}
	symbols := strings.Split(raw, ",")
	for i := range symbols {
		symbols[i] = strings.TrimSpace(symbols[i])
	}
	tickers := s.data.GetMultipleTickers(r.Context(), symbols)
	if tickers == nil {
		tickers = []model.Ticker{}
	}
	writeJSON(w, http.StatusOK, tickers)
}

// handleSymbols serves GET /api/v1/symbols.
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	symbols := s.data.AllSymbols(r.Context())
	if symbols == nil {
		symbols = []model.AssetInfo{}
	}
	writeJSON(w, http.StatusOK, symbols)
}

// handleProvidersHealth serves GET /api/v1/providers/health.
func (s *Server) handleProvidersHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.data.ProvidersHealth(r.Context()))
}
