// Package alerts implements the watch-condition lifecycle: user-facing
// CRUD over alert records, condition evaluation against market data,
// and the recurring checker that transitions matching alerts to
// TRIGGERED and emits notifications.
package alerts

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tradewatch/internal/model"
)

// CreateParams are the user-supplied fields for a new alert.
type CreateParams struct {
	Symbol            string          `json:"symbol"`
	Type              model.AlertType `json:"type"`
	TargetPrice       *float64        `json:"targetPrice,omitempty"`
	RSIThreshold      *float64        `json:"rsiThreshold,omitempty"`
	MinSignalStrength *int            `json:"minSignalStrength,omitempty"`
	Timeframe         model.Timeframe `json:"timeframe,omitempty"`
	Note              string          `json:"note,omitempty"`
	RepeatOnTrigger   *bool           `json:"repeatOnTrigger,omitempty"` // default true
}

// Service is the user-facing alert lifecycle: create, list, cancel,
// delete. The evaluation loop owns the ACTIVE→TRIGGERED transition;
// everything here is explicit user action.
type Service struct {
	store model.AlertStore
}

// NewService creates an alert Service over the given store.
func NewService(store model.AlertStore) *Service {
	return &Service{store: store}
}

// Create validates the condition parameters for the alert type and
// inserts a new ACTIVE alert with a fresh identity.
func (s *Service) Create(ctx context.Context, ownerID string, params CreateParams) (model.Alert, error) {
	if err := validateParams(params); err != nil {
		return model.Alert{}, err
	}

	repeat := true
	if params.RepeatOnTrigger != nil {
		repeat = *params.RepeatOnTrigger
	}

	now := time.Now().UTC()
	alert := model.Alert{
		ID:                uuid.NewString(),
		OwnerID:           ownerID,
		Symbol:            params.Symbol,
		Type:              params.Type,
		Status:            model.StatusActive,
		TargetPrice:       params.TargetPrice,
		RSIThreshold:      params.RSIThreshold,
		MinSignalStrength: params.MinSignalStrength,
		Timeframe:         params.Timeframe,
		Note:              params.Note,
		RepeatOnTrigger:   repeat,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.Create(ctx, alert); err != nil {
		return model.Alert{}, fmt.Errorf("create alert: %w", err)
	}

	log.Printf("[alerts] alert created: %s %s for %s", alert.ID, alert.Type, alert.Symbol)
	return alert, nil
}

// List returns all of one owner's alerts, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.Alert, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// ListActive returns one owner's ACTIVE alerts, newest first.
func (s *Service) ListActive(ctx context.Context, ownerID string) ([]model.Alert, error) {
	all, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	active := make([]model.Alert, 0, len(all))
	for _, a := range all {
		if a.Status == model.StatusActive {
			active = append(active, a)
		}
	}
	return active, nil
}

// Get returns one alert scoped to its owner.
func (s *Service) Get(ctx context.Context, id, ownerID string) (model.Alert, error) {
	return s.store.Find(ctx, id, ownerID)
}

// Cancel moves an ACTIVE alert to CANCELLED. CANCELLED is terminal.
func (s *Service) Cancel(ctx context.Context, id, ownerID string) (model.Alert, error) {
	alert, err := s.store.Find(ctx, id, ownerID)
	if err != nil {
		return model.Alert{}, err
	}
	if alert.Status != model.StatusActive {
		return model.Alert{}, fmt.Errorf("alert %s is %s, only ACTIVE alerts can be cancelled", id, alert.Status)
	}

	cancelled := model.StatusCancelled
	if err := s.store.Update(ctx, id, model.AlertPatch{Status: &cancelled}); err != nil {
		return model.Alert{}, fmt.Errorf("cancel alert: %w", err)
	}
	alert.Status = model.StatusCancelled
	return alert, nil
}

// Delete removes an alert record outright.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.store.Find(ctx, id, ownerID); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// validateParams checks that the parameters an alert type needs are
// present and in range. The switch is exhaustive over AlertType so a
// new condition type fails to compile here until it gets validation.
func validateParams(params CreateParams) error {
	if params.Symbol == "" {
		return fmt.Errorf("symbol is required: %w", model.ErrInvalidCondition)
	}
	if params.Timeframe != "" && !params.Timeframe.Valid() {
		return fmt.Errorf("unknown timeframe %q: %w", params.Timeframe, model.ErrInvalidCondition)
	}

	switch params.Type {
	case model.AlertPriceAbove, model.AlertPriceBelow, model.AlertPriceCross:
		if params.TargetPrice == nil || *params.TargetPrice <= 0 {
			return fmt.Errorf("%s requires a positive targetPrice: %w", params.Type, model.ErrInvalidCondition)
		}
	case model.AlertRSIOverbought, model.AlertRSIOversold:
		if params.RSIThreshold == nil || *params.RSIThreshold < 0 || *params.RSIThreshold > 100 {
			return fmt.Errorf("%s requires an rsiThreshold in [0,100]: %w", params.Type, model.ErrInvalidCondition)
		}
	case model.AlertMACDBullish, model.AlertMACDBearish:
		// No threshold: the MACD signal itself is the condition.
	case model.AlertAIOpportunity:
		if params.MinSignalStrength == nil || *params.MinSignalStrength < 1 || *params.MinSignalStrength > 10 {
			return fmt.Errorf("%s requires a minSignalStrength in [1,10]: %w", params.Type, model.ErrInvalidCondition)
		}
	default:
		return fmt.Errorf("unknown alert type %q: %w", params.Type, model.ErrInvalidCondition)
	}
	return nil
}
