package analysis

import (
	"math"

	"tradewatch/internal/indicator"
)

// fuseTrend collapses the five directional indicator signals into one
// overall trend and a 0-10 strength score. ATR is excluded upstream;
// it gauges volatility, not direction. Neutral signals count toward
// neither side.
//
// The branch order is deliberate and load-bearing: a 4+ consensus on
// either side wins first, then a 3-vote plurality, else neutral with a
// flat strength of 5. Reordering the branches changes which side wins
// mixed cases.
func fuseTrend(signals ...indicator.Signal) (indicator.Signal, int) {
	bullishCount, bearishCount := 0, 0
	for _, s := range signals {
		switch s {
		case indicator.Bullish:
			bullishCount++
		case indicator.Bearish:
			bearishCount++
		}
	}

	total := float64(len(signals))
	strength := func(count int) int {
		return int(math.Round(float64(count) / total * 10))
	}

	switch {
	case bullishCount >= 4:
		return indicator.Bullish, strength(bullishCount)
	case bearishCount >= 4:
		return indicator.Bearish, strength(bearishCount)
	case bullishCount >= 3:
		return indicator.Bullish, strength(bullishCount)
	case bearishCount >= 3:
		return indicator.Bearish, strength(bearishCount)
	default:
		return indicator.Neutral, 5
	}
}
