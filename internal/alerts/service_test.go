package alerts

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tradewatch/internal/model"
)

// fakeStore is an in-memory model.AlertStore shared by the service and
// checker tests.
type fakeStore struct {
	mu        sync.Mutex
	alerts    map[string]model.Alert
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{alerts: map[string]model.Alert{}}
}

func (f *fakeStore) Create(ctx context.Context, alert model.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts[alert.ID] = alert
	return nil
}

func (f *fakeStore) ListActive(ctx context.Context) ([]model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Alert
	for _, a := range f.alerts {
		if a.Status == model.StatusActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Alert
	for _, a := range f.alerts {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) Find(ctx context.Context, id, ownerID string) (model.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alerts[id]
	if !ok || a.OwnerID != ownerID {
		return model.Alert{}, model.ErrAlertNotFound
	}
	return a, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, patch model.AlertPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.alerts[id]
	if !ok {
		return model.ErrAlertNotFound
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.TriggeredAt != nil {
		a.TriggeredAt = patch.TriggeredAt
	}
	if patch.TriggeredPrice != nil {
		a.TriggeredPrice = patch.TriggeredPrice
	}
	f.alerts[id] = a
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.alerts[id]; !ok {
		return model.ErrAlertNotFound
	}
	delete(f.alerts, id)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) get(id string) (model.Alert, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alerts[id]
	return a, ok
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateParams
		wantErr bool
	}{
		{"valid price above", CreateParams{Symbol: "BTC/USDT", Type: model.AlertPriceAbove, TargetPrice: f64(50000)}, false},
		{"price above missing target", CreateParams{Symbol: "BTC/USDT", Type: model.AlertPriceAbove}, true},
		{"price below negative target", CreateParams{Symbol: "BTC/USDT", Type: model.AlertPriceBelow, TargetPrice: f64(-1)}, true},
		{"valid price cross", CreateParams{Symbol: "EUR/USD", Type: model.AlertPriceCross, TargetPrice: f64(1.1)}, false},
		{"valid rsi overbought", CreateParams{Symbol: "BTC/USDT", Type: model.AlertRSIOverbought, RSIThreshold: f64(70)}, false},
		{"rsi threshold out of range", CreateParams{Symbol: "BTC/USDT", Type: model.AlertRSIOversold, RSIThreshold: f64(101)}, true},
		{"rsi threshold missing", CreateParams{Symbol: "BTC/USDT", Type: model.AlertRSIOverbought}, true},
		{"macd needs no threshold", CreateParams{Symbol: "BTC/USDT", Type: model.AlertMACDBullish}, false},
		{"macd bearish needs no threshold", CreateParams{Symbol: "BTC/USDT", Type: model.AlertMACDBearish}, false},
		{"valid ai opportunity", CreateParams{Symbol: "BTC/USDT", Type: model.AlertAIOpportunity, MinSignalStrength: iPtr(7)}, false},
		{"ai strength out of range", CreateParams{Symbol: "BTC/USDT", Type: model.AlertAIOpportunity, MinSignalStrength: iPtr(11)}, true},
		{"ai strength missing", CreateParams{Symbol: "BTC/USDT", Type: model.AlertAIOpportunity}, true},
		{"unknown type", CreateParams{Symbol: "BTC/USDT", Type: "VOLUME_SPIKE", TargetPrice: f64(1)}, true},
		{"missing symbol", CreateParams{Type: model.AlertPriceAbove, TargetPrice: f64(1)}, true},
		{"bad timeframe", CreateParams{Symbol: "BTC/USDT", Type: model.AlertPriceAbove, TargetPrice: f64(1), Timeframe: "2h"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateParams(tt.params)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateParams() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, model.ErrInvalidCondition) {
				t.Errorf("validation error %v does not wrap ErrInvalidCondition", err)
			}
		})
	}
}

func TestServiceCreate(t *testing.T) {
	svc := NewService(newFakeStore())
	alert, err := svc.Create(context.Background(), "user-1", CreateParams{
		Symbol:      "BTC/USDT",
		Type:        model.AlertPriceAbove,
		TargetPrice: f64(50000),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if alert.ID == "" {
		t.Error("created alert has no ID")
	}
	if alert.Status != model.StatusActive {
		t.Errorf("status = %s, want ACTIVE", alert.Status)
	}
	if !alert.RepeatOnTrigger {
		t.Error("repeatOnTrigger should default to true")
	}
	if alert.OwnerID != "user-1" {
		t.Errorf("ownerID = %s, want user-1", alert.OwnerID)
	}
}

func TestServiceCreate_RejectsInvalid(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.Create(context.Background(), "user-1", CreateParams{Symbol: "BTC/USDT", Type: model.AlertPriceAbove})
	if !errors.Is(err, model.ErrInvalidCondition) {
		t.Fatalf("Create with missing target: err = %v, want ErrInvalidCondition", err)
	}
}

func TestServiceCancel(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	alert, err := svc.Create(context.Background(), "user-1", CreateParams{
		Symbol: "BTC/USDT", Type: model.AlertMACDBullish,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), alert.ID, "user-1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	// CANCELLED is terminal.
	if _, err := svc.Cancel(context.Background(), alert.ID, "user-1"); err == nil {
		t.Error("cancelling a cancelled alert should fail")
	}
}

func TestServiceCancel_WrongOwner(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	alert, _ := svc.Create(context.Background(), "user-1", CreateParams{
		Symbol: "BTC/USDT", Type: model.AlertMACDBullish,
	})
	if _, err := svc.Cancel(context.Background(), alert.ID, "someone-else"); !errors.Is(err, model.ErrAlertNotFound) {
		t.Fatalf("cross-owner cancel: err = %v, want ErrAlertNotFound", err)
	}
}

func TestServiceListActive_FiltersTriggered(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	a, _ := svc.Create(context.Background(), "user-1", CreateParams{
		Symbol: "BTC/USDT", Type: model.AlertMACDBullish,
	})
	b, _ := svc.Create(context.Background(), "user-1", CreateParams{
		Symbol: "ETH/USDT", Type: model.AlertMACDBearish,
	})

	triggered := model.StatusTriggered
	if err := store.Update(context.Background(), a.ID, model.AlertPatch{Status: &triggered}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	active, err := svc.ListActive(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].ID != b.ID {
		t.Errorf("active alerts = %+v, want only %s", active, b.ID)
	}
}
