package indicator

import "testing"

func TestRSI_AllGains(t *testing.T) {
	bars := barsFromCloses(risingCloses(20)...)
	got := RSI(bars, DefaultRSIPeriod)
	if got.Value != 100 {
		t.Errorf("RSI of monotone gains = %v, want 100", got.Value)
	}
	if got.Signal != Bearish {
		t.Errorf("RSI 100 signal = %s, want bearish (overbought)", got.Signal)
	}
}

func TestRSI_AllLosses(t *testing.T) {
	bars := barsFromCloses(fallingCloses(20)...)
	got := RSI(bars, DefaultRSIPeriod)
	if got.Value != 0 {
		t.Errorf("RSI of monotone losses = %v, want 0", got.Value)
	}
	if got.Signal != Bullish {
		t.Errorf("RSI 0 signal = %s, want bullish (oversold)", got.Signal)
	}
}

func TestRSI_BalancedMoves(t *testing.T) {
	// Exactly period+1 closes alternating +1/-1: seven gains, seven
	// losses, no smoothing steps. RSI lands exactly on 50.
	closes := make([]float64, DefaultRSIPeriod+1)
	for i := range closes {
		closes[i] = 100 + float64(i%2)
	}
	got := RSI(barsFromCloses(closes...), DefaultRSIPeriod)
	if got.Value != 50 {
		t.Errorf("RSI of balanced moves = %v, want 50", got.Value)
	}
	if got.Signal != Neutral {
		t.Errorf("RSI 50 signal = %s, want neutral", got.Signal)
	}
}

func TestRSI_InsufficientData(t *testing.T) {
	bars := barsFromCloses(risingCloses(DefaultRSIPeriod)...)
	got := RSI(bars, DefaultRSIPeriod)
	if got.Value != 50 {
		t.Errorf("RSI with %d bars = %v, want the 50 default", DefaultRSIPeriod, got.Value)
	}
	if got.Signal != Neutral {
		t.Errorf("under-window RSI signal = %s, want neutral", got.Signal)
	}
}

func TestRSI_BoundedOnMixedData(t *testing.T) {
	closes := []float64{100, 103, 99, 104, 98, 105, 102, 101, 106, 97,
		103, 100, 104, 99, 105, 101, 102, 98, 103, 100}
	got := RSI(barsFromCloses(closes...), DefaultRSIPeriod)
	if got.Value < 0 || got.Value > 100 {
		t.Errorf("RSI = %v, want within [0,100]", got.Value)
	}
}
