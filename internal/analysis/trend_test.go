package analysis

import (
	"testing"

	"tradewatch/internal/indicator"
)

func TestFuseTrend(t *testing.T) {
	bu, be, ne := indicator.Bullish, indicator.Bearish, indicator.Neutral

	tests := []struct {
		name         string
		signals      []indicator.Signal
		wantTrend    indicator.Signal
		wantStrength int
	}{
		{"unanimous bullish", []indicator.Signal{bu, bu, bu, bu, bu}, bu, 10},
		{"four bullish", []indicator.Signal{bu, bu, bu, bu, be}, bu, 8},
		{"bullish plurality", []indicator.Signal{bu, bu, bu, be, be}, bu, 6},
		{"bearish plurality", []indicator.Signal{be, be, be, bu, bu}, be, 6},
		{"four bearish with neutral", []indicator.Signal{be, be, be, be, ne}, be, 8},
		{"split decision", []indicator.Signal{bu, bu, be, be, ne}, ne, 5},
		{"all neutral", []indicator.Signal{ne, ne, ne, ne, ne}, ne, 5},
		{"neutrals abstain", []indicator.Signal{bu, bu, bu, ne, ne}, bu, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend, strength := fuseTrend(tt.signals...)
			if trend != tt.wantTrend {
				t.Errorf("trend = %s, want %s", trend, tt.wantTrend)
			}
			if strength != tt.wantStrength {
				t.Errorf("strength = %d, want %d", strength, tt.wantStrength)
			}
		})
	}
}
