package indicator

import (
	"fmt"

	"tradewatch/internal/model"
)

// MovingAverages computes SMA 20/50/200 and EMA 9/21 of closing prices
// and derives a 4-vote majority signal: one vote per price-vs-SMA
// comparison plus one for EMA9 vs EMA21. Each comparison is binary, so
// 3+ votes on a side decides; anything else reads as mixed (neutral).
//
// Averages whose period exceeds the available history stay 0 and still
// take part in the vote; callers that need an unbiased vote must feed
// enough bars for the slowest average.
func MovingAverages(bars []model.PriceBar) MovingAveragesResult {
	values := closes(bars)
	var currentPrice float64
	if len(values) > 0 {
		currentPrice = values[len(values)-1]
	}

	sma20 := smaLast(values, 20)
	sma50 := smaLast(values, 50)
	sma200 := smaLast(values, 200)
	ema9 := emaLast(values, 9)
	ema21 := emaLast(values, 21)

	bullishCount, bearishCount := 0, 0
	if currentPrice > sma20 {
		bullishCount++
	} else {
		bearishCount++
	}
	if currentPrice > sma50 {
		bullishCount++
	} else {
		bearishCount++
	}
	if currentPrice > sma200 {
		bullishCount++
	} else {
		bearishCount++
	}
	if ema9 > ema21 {
		bullishCount++
	} else {
		bearishCount++
	}

	var signal Signal
	var interp string
	switch {
	case bullishCount >= 3:
		signal = Bullish
		interp = fmt.Sprintf("Price above %d major MAs - bullish trend", bullishCount)
	case bearishCount >= 3:
		signal = Bearish
		interp = fmt.Sprintf("Price below %d major MAs - bearish trend", bearishCount)
	default:
		signal = Neutral
		interp = "Mixed MA signals - consolidation"
	}

	return MovingAveragesResult{
		SMA20:          round2(sma20),
		SMA50:          round2(sma50),
		SMA200:         round2(sma200),
		EMA9:           round2(ema9),
		EMA21:          round2(ema21),
		Signal:         signal,
		Interpretation: interp,
	}
}
