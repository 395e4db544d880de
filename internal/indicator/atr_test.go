package indicator

import (
	"testing"
	"time"

	"tradewatch/internal/model"
)

// spreadBars builds n bars with a fixed high/low spread around a
// constant close.
func spreadBars(n int, high, low, close float64) []model.PriceBar {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = model.PriceBar{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			High:      high,
			Low:       low,
			Close:     close,
		}
	}
	return bars
}

func TestATR_ConstantRange(t *testing.T) {
	// Every true range is the 4-point intrabar spread, so Wilder's
	// smoothing is a no-op and ATR equals 4 exactly. 4% of price is
	// the high-volatility tier.
	got := ATR(spreadBars(20, 102, 98, 100), DefaultATRPeriod)
	if got.Value != 4 {
		t.Errorf("ATR = %v, want 4", got.Value)
	}
	if got.Signal != Neutral {
		t.Errorf("ATR signal = %s, want neutral (non-directional)", got.Signal)
	}
	if got.Interpretation != "High volatility - use wider stops" {
		t.Errorf("ATR interpretation = %q, want the high-volatility tier", got.Interpretation)
	}
}

func TestATR_ModerateTier(t *testing.T) {
	got := ATR(spreadBars(20, 101, 99, 100), DefaultATRPeriod)
	if got.Value != 2 {
		t.Errorf("ATR = %v, want 2", got.Value)
	}
	if got.Interpretation != "Moderate volatility - normal conditions" {
		t.Errorf("ATR interpretation = %q, want the moderate tier", got.Interpretation)
	}
}

func TestATR_InsufficientData(t *testing.T) {
	got := ATR(spreadBars(DefaultATRPeriod, 102, 98, 100), DefaultATRPeriod)
	if got.Value != 0 {
		t.Errorf("ATR with %d bars = %v, want 0", DefaultATRPeriod, got.Value)
	}
}

func TestTrueRange_GapDominates(t *testing.T) {
	prev := model.PriceBar{High: 101, Low: 99, Close: 100}
	cur := model.PriceBar{High: 112, Low: 110, Close: 111}
	if got := trueRange(cur, prev); got != 12 {
		t.Errorf("gap-up true range = %v, want 12 (high minus previous close)", got)
	}
}
