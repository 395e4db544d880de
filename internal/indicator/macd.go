package indicator

import "tradewatch/internal/model"

// Default MACD parameters (fast EMA, slow EMA, signal EMA).
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACD computes the MACD line (fast EMA minus slow EMA of closes), its
// EMA signal line and the histogram (their difference). With fewer bars
// than the slow period everything degrades to 0 (neutral).
//
// Signal rule: positive histogram that expanded versus the previous bar
// reads as strong bullish momentum, positive otherwise plain bullish;
// symmetric on the negative side. The expansion check needs two computed
// histogram points; on the first available point the non-expanding
// branch applies.
func MACD(bars []model.PriceBar, fast, slow, signalPeriod int) MACDResult {
	values := closes(bars)
	macdVals := macdLineSeries(values, fast, slow)

	var macdLine, signalLine, histogram, prevHistogram float64
	havePrev := false

	if len(macdVals) > 0 {
		macdLine = macdVals[len(macdVals)-1]
	}
	if len(macdVals) >= signalPeriod {
		sig := emaSeries(macdVals, signalPeriod)
		signalLine = sig[len(sig)-1]
		histogram = macdLine - signalLine
		if len(macdVals) >= signalPeriod+1 {
			prevHistogram = macdVals[len(macdVals)-2] - sig[len(sig)-2]
			havePrev = true
		}
	}

	var signal Signal
	var interp string
	switch {
	case histogram > 0 && havePrev && histogram > prevHistogram:
		signal = Bullish
		interp = "MACD histogram expanding bullish - strong momentum"
	case histogram > 0:
		signal = Bullish
		interp = "MACD above signal line - bullish"
	case histogram < 0 && havePrev && histogram < prevHistogram:
		signal = Bearish
		interp = "MACD histogram expanding bearish - strong downward momentum"
	case histogram < 0:
		signal = Bearish
		interp = "MACD below signal line - bearish"
	default:
		signal = Neutral
		interp = "MACD is neutral"
	}

	return MACDResult{
		MACDLine:       round2(macdLine),
		SignalLine:     round2(signalLine),
		Histogram:      round2(histogram),
		Signal:         signal,
		Interpretation: interp,
	}
}

// macdLineSeries returns the compact MACD line series, one entry per
// close from index slow-1 onward. Empty when there are fewer closes
// than the slow period.
func macdLineSeries(values []float64, fast, slow int) []float64 {
	if len(values) < slow || fast <= 0 || slow <= fast {
		return nil
	}
	emaFast := emaSeries(values, fast)
	emaSlow := emaSeries(values, slow)

	out := make([]float64, 0, len(values)-slow+1)
	for i := slow - 1; i < len(values); i++ {
		out = append(out, emaFast[i]-emaSlow[i])
	}
	return out
}
