package indicator

import (
	"math"

	"tradewatch/internal/model"
)

// DefaultATRPeriod is the conventional ATR lookback.
const DefaultATRPeriod = 14

// ATR computes the Average True Range using Wilder's smoothing over the
// true-range series. ATR is a volatility gauge, not a directional one:
// the signal is always neutral, but the interpretation names one of
// three tiers based on ATR as a percentage of the current price
// (>3% high, >1.5% moderate, else low volatility).
func ATR(bars []model.PriceBar, period int) Result {
	value := atrLast(bars, period)

	var currentPrice float64
	if len(bars) > 0 {
		currentPrice = bars[len(bars)-1].Close
	}
	atrPercent := 0.0
	if currentPrice != 0 {
		atrPercent = value / currentPrice * 100
	}

	var interp string
	switch {
	case atrPercent > 3:
		interp = "High volatility - use wider stops"
	case atrPercent > 1.5:
		interp = "Moderate volatility - normal conditions"
	default:
		interp = "Low volatility - potential breakout brewing"
	}

	return Result{Value: round2(value), Signal: Neutral, Interpretation: interp}
}

// atrLast computes the final ATR of the series: true ranges from the
// second bar on, seeded with their simple mean over the first period,
// then Wilder-smoothed. Returns 0 with fewer than period+1 bars.
func atrLast(bars []model.PriceBar, period int) float64 {
	if period <= 0 || len(bars) < period+1 {
		return 0
	}

	atr := 0.0
	for i := 1; i <= period; i++ {
		atr += trueRange(bars[i], bars[i-1])
	}
	atr /= float64(period)

	p := float64(period)
	for i := period + 1; i < len(bars); i++ {
		atr = (atr*(p-1) + trueRange(bars[i], bars[i-1])) / p
	}
	return atr
}

// trueRange is the greatest of the intrabar range and the two gaps
// against the previous close.
func trueRange(cur, prev model.PriceBar) float64 {
	tr := cur.High - cur.Low
	if gap := math.Abs(cur.High - prev.Close); gap > tr {
		tr = gap
	}
	if gap := math.Abs(cur.Low - prev.Close); gap > tr {
		tr = gap
	}
	return tr
}
