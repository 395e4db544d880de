package indicator

import "tradewatch/internal/model"

// Default Stochastic Oscillator parameters.
const (
	DefaultStochasticPeriod = 14
	DefaultStochasticSignal = 3
)

// Stochastic computes the raw %K of the last bar: where the close sits
// within the highest-high/lowest-low range of the last period bars,
// scaled to 0-100. With fewer bars than the period, or a flat range,
// the value defaults to 50. The signalPeriod parameter is accepted for
// interface parity with the conventional (%K, %D) pairing; the signal
// rule keys off %K alone.
//
// Signal rule: >=80 bearish (overbought), <=20 bullish (oversold),
// >50 bullish momentum, otherwise bearish momentum.
func Stochastic(bars []model.PriceBar, period, signalPeriod int) Result {
	value := 50.0
	if period > 0 && len(bars) >= period {
		window := bars[len(bars)-period:]
		highest := window[0].High
		lowest := window[0].Low
		for _, b := range window[1:] {
			if b.High > highest {
				highest = b.High
			}
			if b.Low < lowest {
				lowest = b.Low
			}
		}
		if highest != lowest {
			last := bars[len(bars)-1].Close
			value = (last - lowest) / (highest - lowest) * 100
		}
	}

	var signal Signal
	var interp string
	switch {
	case value >= 80:
		signal = Bearish
		interp = "Stochastic overbought - potential reversal"
	case value <= 20:
		signal = Bullish
		interp = "Stochastic oversold - potential bounce"
	case value > 50:
		signal = Bullish
		interp = "Stochastic showing bullish momentum"
	default:
		signal = Bearish
		interp = "Stochastic showing bearish momentum"
	}

	return Result{Value: round2(value), Signal: signal, Interpretation: interp}
}
