package indicator

import "testing"

func TestBollinger_KnownBands(t *testing.T) {
	// 20 closes alternating 90/110: mean 100, population stddev 10,
	// so the 2-sigma bands sit at 80/120. The last close of 110 lands
	// at %B 0.75, upper half of the bands.
	closes := make([]float64, DefaultBollingerPeriod)
	for i := range closes {
		closes[i] = 90
		if i%2 == 1 {
			closes[i] = 110
		}
	}
	got := Bollinger(barsFromCloses(closes...), DefaultBollingerPeriod, DefaultBollingerStdDev)

	if got.Middle != 100 || got.Upper != 120 || got.Lower != 80 {
		t.Errorf("bands = %v/%v/%v, want 120/100/80", got.Upper, got.Middle, got.Lower)
	}
	if got.PercentB != 0.75 {
		t.Errorf("%%B = %v, want 0.75", got.PercentB)
	}
	if got.Bandwidth != 0.4 {
		t.Errorf("bandwidth = %v, want 0.4", got.Bandwidth)
	}
	if got.Signal != Bullish {
		t.Errorf("upper-half signal = %s, want bullish", got.Signal)
	}
}

func TestBollinger_BreakoutAboveUpper(t *testing.T) {
	closes := append(constantCloses(19, 100), 150)
	got := Bollinger(barsFromCloses(closes...), DefaultBollingerPeriod, DefaultBollingerStdDev)
	if got.Signal != Bearish {
		t.Errorf("price beyond upper band signal = %s, want bearish (overbought)", got.Signal)
	}
}

func TestBollinger_CollapsedBandsDefaultPercentB(t *testing.T) {
	// Under-window input leaves the bands at zero; %B must hold its
	// 0.5 default instead of dividing by a zero band span.
	got := Bollinger(barsFromCloses(constantCloses(10, 100)...), DefaultBollingerPeriod, DefaultBollingerStdDev)
	if got.PercentB != 0.5 {
		t.Errorf("collapsed-band %%B = %v, want 0.5", got.PercentB)
	}
	if got.Bandwidth != 0 {
		t.Errorf("collapsed-band bandwidth = %v, want 0", got.Bandwidth)
	}
}
