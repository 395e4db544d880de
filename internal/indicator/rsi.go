package indicator

import "tradewatch/internal/model"

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// RSI computes the Relative Strength Index over closing prices using
// Wilder's smoothing. With fewer than period+1 bars the value defaults
// to 50 (neutral).
//
// Signal rule, in priority order: >=70 bearish (overbought), <=30
// bullish (oversold), >50 bullish momentum, <50 bearish momentum,
// exactly 50 neutral.
func RSI(bars []model.PriceBar, period int) Result {
	value := rsiLast(closes(bars), period)

	var signal Signal
	var interp string
	switch {
	case value >= 70:
		signal = Bearish
		interp = "RSI indicates overbought conditions - potential reversal"
	case value <= 30:
		signal = Bullish
		interp = "RSI indicates oversold conditions - potential bounce"
	case value > 50:
		signal = Bullish
		interp = "RSI shows bullish momentum"
	case value < 50:
		signal = Bearish
		interp = "RSI shows bearish momentum"
	default:
		signal = Neutral
		interp = "RSI is neutral"
	}

	return Result{Value: round2(value), Signal: signal, Interpretation: interp}
}

// rsiLast computes the final RSI value of the series. Returns 50 when
// there are not enough closes to form a single RSI value.
func rsiLast(values []float64, period int) float64 {
	if period <= 0 || len(values) < period+1 {
		return 50
	}

	// Seed averages with the simple mean of the first period deltas.
	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder's smoothing: avg = (prevAvg*(period-1) + current) / period
	p := float64(period)
	for i := period + 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
