package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"tradewatch/internal/alerts"
	"tradewatch/internal/model"
	sqlitestore "tradewatch/internal/store/sqlite"
)

// newTestMux wires the alert routes over a throwaway SQLite store.
// Analysis and market data handlers need live providers and are not
// exercised here.
func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	store, err := sqlitestore.New(sqlitestore.StoreConfig{
		DBPath: filepath.Join(t.TempDir(), "alerts.db"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	mux := http.NewServeMux()
	NewServer(alerts.NewService(store), nil, nil).Routes(mux)
	return mux
}

func createAlert(t *testing.T, mux *http.ServeMux, body string) model.Alert {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create alert: status %d, body %s", w.Code, w.Body.String())
	}
	var alert model.Alert
	if err := json.Unmarshal(w.Body.Bytes(), &alert); err != nil {
		t.Fatalf("decode alert: %v", err)
	}
	return alert
}

func TestAlerts_CreateAndGet(t *testing.T) {
	mux := newTestMux(t)
	alert := createAlert(t, mux, `{"symbol":"BTC/USDT","type":"PRICE_ABOVE","targetPrice":50000}`)

	if alert.Status != model.StatusActive {
		t.Errorf("created status = %s, want ACTIVE", alert.Status)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/"+alert.ID, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get alert: status %d", w.Code)
	}
	var got model.Alert
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.ID != alert.ID {
		t.Errorf("fetched ID = %s, want %s", got.ID, alert.ID)
	}
}

func TestAlerts_CreateRejectsBadCondition(t *testing.T) {
	mux := newTestMux(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts",
		bytes.NewReader([]byte(`{"symbol":"BTC/USDT","type":"PRICE_ABOVE"}`)))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing targetPrice: status %d, want 400", w.Code)
	}
}

func TestAlerts_ListScopedToOwner(t *testing.T) {
	mux := newTestMux(t)
	createAlert(t, mux, `{"symbol":"BTC/USDT","type":"MACD_BULLISH"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	req.Header.Set("X-Owner-ID", "someone-else")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list alerts: status %d", w.Code)
	}
	var list []model.Alert
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 0 {
		t.Errorf("cross-owner list = %d alerts, want 0", len(list))
	}
}

func TestAlerts_CancelThenDelete(t *testing.T) {
	mux := newTestMux(t)
	alert := createAlert(t, mux, `{"symbol":"BTC/USDT","type":"MACD_BULLISH"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+alert.ID+"/cancel", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: status %d, body %s", w.Code, w.Body.String())
	}
	var cancelled model.Alert
	json.Unmarshal(w.Body.Bytes(), &cancelled)
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("status after cancel = %s, want CANCELLED", cancelled.Status)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/alerts/"+alert.ID, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/alerts/"+alert.ID, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted alert: status %d, want 404", w.Code)
	}
}

func TestAlerts_UnknownIDReturns404(t *testing.T) {
	mux := newTestMux(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/no-such-id", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestAlerts_MethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/alerts", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
