package indicator

import "tradewatch/internal/model"

// Default Bollinger Band parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerStdDev = 2.0
)

// Bollinger computes the middle band (SMA of closes), upper and lower
// bands offset by stdDev standard deviations, plus %B and bandwidth.
// %B defaults to 0.5 when the bands collapse (upper == lower) and
// bandwidth to 0 when the middle band is 0.
//
// Signal rule: price at or beyond the upper band is bearish
// (overbought), at or beyond the lower band bullish (oversold),
// otherwise the %B half decides the bias.
func Bollinger(bars []model.PriceBar, period int, stdDev float64) BollingerResult {
	values := closes(bars)
	var currentPrice float64
	if len(values) > 0 {
		currentPrice = values[len(values)-1]
	}

	var upper, middle, lower float64
	if len(values) >= period {
		middle = smaLast(values, period)
		sd := stdDevLast(values, period)
		upper = middle + stdDev*sd
		lower = middle - stdDev*sd
	}

	percentB := 0.5
	if upper != lower {
		percentB = (currentPrice - lower) / (upper - lower)
	}
	bandwidth := 0.0
	if middle != 0 {
		bandwidth = (upper - lower) / middle
	}

	var signal Signal
	var interp string
	switch {
	case currentPrice >= upper:
		signal = Bearish
		interp = "Price at upper band - potential overbought"
	case currentPrice <= lower:
		signal = Bullish
		interp = "Price at lower band - potential oversold"
	case percentB > 0.5:
		signal = Bullish
		interp = "Price in upper half of bands - bullish bias"
	default:
		signal = Bearish
		interp = "Price in lower half of bands - bearish bias"
	}

	return BollingerResult{
		Upper:          round2(upper),
		Middle:         round2(middle),
		Lower:          round2(lower),
		PercentB:       round3(percentB),
		Bandwidth:      round4(bandwidth),
		Signal:         signal,
		Interpretation: interp,
	}
}
