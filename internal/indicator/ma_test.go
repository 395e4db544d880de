package indicator

import "testing"

func TestMovingAverages_Values(t *testing.T) {
	// 1..20: SMA20 is the mean 10.5; the slower averages lack history
	// and stay 0.
	got := MovingAverages(barsFromCloses(risingCloses(20)...))
	if got.SMA20 != 10.5 {
		t.Errorf("SMA20 = %v, want 10.5", got.SMA20)
	}
	if got.SMA50 != 0 || got.SMA200 != 0 {
		t.Errorf("under-window SMAs = %v/%v, want 0/0", got.SMA50, got.SMA200)
	}
}

func TestMovingAverages_UptrendBullish(t *testing.T) {
	got := MovingAverages(barsFromCloses(risingCloses(220)...))
	if got.Signal != Bullish {
		t.Errorf("uptrend MA signal = %s, want bullish", got.Signal)
	}
	if got.EMA9 <= got.EMA21 {
		t.Errorf("uptrend EMA9 (%v) should exceed EMA21 (%v)", got.EMA9, got.EMA21)
	}
}

func TestMovingAverages_DowntrendBearish(t *testing.T) {
	closes := make([]float64, 220)
	for i := range closes {
		closes[i] = float64(1000 - i)
	}
	got := MovingAverages(barsFromCloses(closes...))
	if got.Signal != Bearish {
		t.Errorf("downtrend MA signal = %s, want bearish", got.Signal)
	}
}
