package indicator

import (
	"testing"
	"time"

	"tradewatch/internal/model"
)

// pivotBars builds bars from explicit high/low pairs; the final close
// sets the current price the levels are split around.
func pivotBars(hl [][2]float64, lastClose float64) []model.PriceBar {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, len(hl))
	for i, p := range hl {
		bars[i] = model.PriceBar{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			High:      p[0],
			Low:       p[1],
			Close:     (p[0] + p[1]) / 2,
		}
	}
	bars[len(bars)-1].Close = lastClose
	return bars
}

func TestPivots_LocalExtremes(t *testing.T) {
	// Highs peak at index 2 (105) and index 7 (110); lows trough at
	// index 4 (85). The edges never qualify: they lack a full
	// two-bar window on each side.
	hl := [][2]float64{
		{100, 90}, {101, 91},
		{105, 95}, // resistance pivot
		{101, 91},
		{100, 85}, // support pivot
		{99, 90}, {98, 92},
		{110, 100}, // resistance pivot
		{100, 93}, {101, 94}, {103, 101},
	}
	sr := Pivots(pivotBars(hl, 102))

	wantRes := []float64{105, 110}
	if len(sr.ResistanceLevels) != len(wantRes) {
		t.Fatalf("resistance levels = %v, want %v", sr.ResistanceLevels, wantRes)
	}
	for i, want := range wantRes {
		if sr.ResistanceLevels[i] != want {
			t.Errorf("resistance[%d] = %v, want %v", i, sr.ResistanceLevels[i], want)
		}
	}
	if sr.NearestResistance != 105 {
		t.Errorf("nearest resistance = %v, want 105", sr.NearestResistance)
	}

	if len(sr.SupportLevels) != 1 || sr.SupportLevels[0] != 85 {
		t.Fatalf("support levels = %v, want [85]", sr.SupportLevels)
	}
	if sr.NearestSupport != 85 {
		t.Errorf("nearest support = %v, want 85", sr.NearestSupport)
	}
}

func TestPivots_NoBars(t *testing.T) {
	sr := Pivots(nil)
	if sr.NearestSupport != 0 || sr.NearestResistance != 0 {
		t.Errorf("empty input nearest levels = %v/%v, want 0/0", sr.NearestSupport, sr.NearestResistance)
	}
	if len(sr.SupportLevels) != 0 || len(sr.ResistanceLevels) != 0 {
		t.Errorf("empty input levels = %v/%v, want empty", sr.SupportLevels, sr.ResistanceLevels)
	}
}

func TestDedupLevels(t *testing.T) {
	// 100 and 100.2 sit 0.2% apart, inside the 0.5% tolerance; only
	// the first survives.
	got := dedupLevels([]float64{110, 100, 100.2})
	want := []float64{100, 110}
	if len(got) != len(want) {
		t.Fatalf("dedupLevels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dedupLevels[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
