package model

import "time"

// AlertType identifies the watch condition an alert evaluates.
// Closed set: the alert service validates parameters per type and the
// evaluator switches exhaustively over these constants.
type AlertType string

const (
	AlertPriceAbove    AlertType = "PRICE_ABOVE"
	AlertPriceBelow    AlertType = "PRICE_BELOW"
	AlertPriceCross    AlertType = "PRICE_CROSS"
	AlertRSIOverbought AlertType = "RSI_OVERBOUGHT"
	AlertRSIOversold   AlertType = "RSI_OVERSOLD"
	AlertMACDBullish   AlertType = "MACD_BULLISH"
	AlertMACDBearish   AlertType = "MACD_BEARISH"
	AlertAIOpportunity AlertType = "AI_OPPORTUNITY"
)

// Valid reports whether t is a known alert type.
func (t AlertType) Valid() bool {
	switch t {
	case AlertPriceAbove, AlertPriceBelow, AlertPriceCross,
		AlertRSIOverbought, AlertRSIOversold,
		AlertMACDBullish, AlertMACDBearish, AlertAIOpportunity:
		return true
	}
	return false
}

// NeedsAnalysis reports whether evaluating this alert type requires a
// full technical analysis snapshot (as opposed to just a price ticker).
func (t AlertType) NeedsAnalysis() bool {
	switch t {
	case AlertRSIOverbought, AlertRSIOversold,
		AlertMACDBullish, AlertMACDBearish, AlertAIOpportunity:
		return true
	}
	return false
}

// AlertStatus is the lifecycle state of an alert record.
type AlertStatus string

const (
	StatusActive    AlertStatus = "ACTIVE"
	StatusTriggered AlertStatus = "TRIGGERED"
	StatusExpired   AlertStatus = "EXPIRED"
	StatusCancelled AlertStatus = "CANCELLED"
)

// Alert is one user-defined watch condition.
//
// Lifecycle: created ACTIVE; the evaluation loop moves it
// ACTIVE→TRIGGERED (stamping TriggeredAt/TriggeredPrice), user action
// moves it ACTIVE→CANCELLED or deletes it. TRIGGERED and CANCELLED are
// terminal. A repeat alert spawns a brand-new ACTIVE record on trigger;
// the triggered record itself is never resurrected.
type Alert struct {
	ID                string      `json:"id"`
	OwnerID           string      `json:"ownerId"`
	Symbol            string      `json:"symbol"`
	Type              AlertType   `json:"type"`
	Status            AlertStatus `json:"status"`
	TargetPrice       *float64    `json:"targetPrice,omitempty"`
	RSIThreshold      *float64    `json:"rsiThreshold,omitempty"`
	MinSignalStrength *int        `json:"minSignalStrength,omitempty"`
	Timeframe         Timeframe   `json:"timeframe,omitempty"`
	Note              string      `json:"note,omitempty"`
	RepeatOnTrigger   bool        `json:"repeatOnTrigger"`
	TriggeredAt       *time.Time  `json:"triggeredAt,omitempty"`
	TriggeredPrice    *float64    `json:"triggeredPrice,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// AlertPatch is a partial update applied by the store. Nil fields are
// left unchanged.
type AlertPatch struct {
	Status         *AlertStatus
	TriggeredAt    *time.Time
	TriggeredPrice *float64
}

// AlertFiredEvent is emitted to the notification sink and the push
// gateway when an alert transitions to TRIGGERED.
type AlertFiredEvent struct {
	AlertID        string    `json:"alertId"`
	OwnerID        string    `json:"ownerId"`
	Symbol         string    `json:"symbol"`
	Type           AlertType `json:"type"`
	Message        string    `json:"message"`
	TriggeredPrice float64   `json:"triggeredPrice"`
	TriggeredAt    time.Time `json:"triggeredAt"`
}
