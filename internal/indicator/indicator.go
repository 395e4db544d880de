// Package indicator provides technical indicator calculations over bar data.
//
// All functions are pure: they take an ascending-by-time bar sequence plus
// lookback parameters and recompute from scratch on every call. Nothing is
// cached between calls. Numeric outputs are rounded to fixed precision
// (2 decimals for price-scale values, 3-4 for ratios) so results are
// deterministic and comparable in tests.
//
// Indicators that lack enough bars for their own period degrade to a
// zero/placeholder value instead of failing; the analysis layer enforces
// the overall minimum bar count before calling in here.
package indicator

import (
	"math"

	"tradewatch/internal/model"
)

// Signal is the qualitative read of an indicator.
type Signal string

const (
	Bullish Signal = "bullish"
	Bearish Signal = "bearish"
	Neutral Signal = "neutral"
)

// Result is the output of a single-valued indicator (RSI, Stochastic, ATR).
type Result struct {
	Value          float64 `json:"value"`
	Signal         Signal  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// MACDResult holds the MACD line, its signal line and their difference.
type MACDResult struct {
	MACDLine       float64 `json:"macdLine"`
	SignalLine     float64 `json:"signalLine"`
	Histogram      float64 `json:"histogram"`
	Signal         Signal  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// MovingAveragesResult holds the standard SMA/EMA set and the majority-vote signal.
type MovingAveragesResult struct {
	SMA20          float64 `json:"sma20"`
	SMA50          float64 `json:"sma50"`
	SMA200         float64 `json:"sma200"`
	EMA9           float64 `json:"ema9"`
	EMA21          float64 `json:"ema21"`
	Signal         Signal  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// BollingerResult holds the band levels plus %B and bandwidth ratios.
type BollingerResult struct {
	Upper          float64 `json:"upper"`
	Middle         float64 `json:"middle"`
	Lower          float64 `json:"lower"`
	PercentB       float64 `json:"percentB"`
	Bandwidth      float64 `json:"bandwidth"`
	Signal         Signal  `json:"signal"`
	Interpretation string  `json:"interpretation"`
}

// SupportResistance holds pivot-derived price levels around the current price.
// Resistance levels are strictly above the current price, ascending from it;
// support levels strictly below, descending from it. At most 3 per side.
type SupportResistance struct {
	SupportLevels     []float64 `json:"supportLevels"`
	ResistanceLevels  []float64 `json:"resistanceLevels"`
	NearestSupport    float64   `json:"nearestSupport"`
	NearestResistance float64   `json:"nearestResistance"`
}

// round2 rounds to 2 decimals (price-scale values).
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// round3 rounds to 3 decimals (%B).
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// round4 rounds to 4 decimals (bandwidth).
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

// closes extracts the close series from bars.
func closes(bars []model.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
