package alerts

import (
	"testing"

	"tradewatch/internal/analysis"
	"tradewatch/internal/indicator"
	"tradewatch/internal/model"
)

func f64(v float64) *float64 { return &v }
func iPtr(v int) *int        { return &v }

func TestEvaluate(t *testing.T) {
	snap := &analysis.Snapshot{
		SignalStrength: 8,
		OverallTrend:   indicator.Bullish,
		RSI:            indicator.Result{Value: 75},
		MACD:           indicator.MACDResult{Signal: indicator.Bullish},
	}

	tests := []struct {
		name      string
		alert     model.Alert
		price     float64
		snap      *analysis.Snapshot
		wantFired bool
	}{
		{
			name:      "price above fires at target",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertPriceAbove, TargetPrice: f64(100)},
			price:     100,
			wantFired: true,
		},
		{
			name:      "price above holds below target",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertPriceAbove, TargetPrice: f64(100)},
			price:     99.99,
			wantFired: false,
		},
		{
			name:      "price above without target never fires",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertPriceAbove},
			price:     1e9,
			wantFired: false,
		},
		{
			name:      "price below fires",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertPriceBelow, TargetPrice: f64(100)},
			price:     95,
			wantFired: true,
		},
		{
			name:      "price cross has no previous-tick memory",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertPriceCross, TargetPrice: f64(100)},
			price:     100,
			wantFired: false,
		},
		{
			name:      "rsi overbought fires at threshold",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertRSIOverbought, RSIThreshold: f64(70)},
			snap:      snap,
			wantFired: true,
		},
		{
			name:      "rsi overbought without snapshot holds",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertRSIOverbought, RSIThreshold: f64(70)},
			snap:      nil,
			wantFired: false,
		},
		{
			name:      "rsi oversold holds above threshold",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertRSIOversold, RSIThreshold: f64(30)},
			snap:      snap,
			wantFired: false,
		},
		{
			name:      "macd bullish matches snapshot signal",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertMACDBullish},
			snap:      snap,
			wantFired: true,
		},
		{
			name:      "macd bearish holds on bullish snapshot",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertMACDBearish},
			snap:      snap,
			wantFired: false,
		},
		{
			name:      "ai opportunity fires at min strength",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertAIOpportunity, MinSignalStrength: iPtr(8)},
			snap:      snap,
			wantFired: true,
		},
		{
			name:      "ai opportunity holds below min strength",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: model.AlertAIOpportunity, MinSignalStrength: iPtr(9)},
			snap:      snap,
			wantFired: false,
		},
		{
			name:      "unknown type never fires",
			alert:     model.Alert{Symbol: "BTC/USDT", Type: "VOLUME_SPIKE"},
			price:     100,
			wantFired: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired, message := evaluate(tt.alert, tt.price, tt.snap)
			if fired != tt.wantFired {
				t.Errorf("fired = %v, want %v", fired, tt.wantFired)
			}
			if fired && message == "" {
				t.Error("fired alert produced an empty message")
			}
		})
	}
}
