package indicator

import (
	"math"
	"sort"

	"tradewatch/internal/model"
)

// pivotDedupTolerance is the relative distance below which two
// same-side levels count as the same level.
const pivotDedupTolerance = 0.005

// Pivots derives support and resistance levels from local price
// extremes. A bar's high is a resistance pivot when it strictly exceeds
// the highs of the two bars on each side; symmetric rule on lows for
// support. The first and last two bars lack a full window and are
// never pivots.
//
// Collected levels are deduplicated within 0.5% relative distance,
// split around the current price (resistance strictly above, support
// strictly below) and truncated to the 3 levels nearest to it per
// side. Nearest support/resistance are 0 when no level qualifies.
func Pivots(bars []model.PriceBar) SupportResistance {
	var currentPrice float64
	if len(bars) > 0 {
		currentPrice = bars[len(bars)-1].Close
	}

	var resistance, support []float64
	for i := 2; i < len(bars)-2; i++ {
		h := bars[i].High
		if h > bars[i-1].High && h > bars[i-2].High && h > bars[i+1].High && h > bars[i+2].High {
			resistance = append(resistance, h)
		}
		l := bars[i].Low
		if l < bars[i-1].Low && l < bars[i-2].Low && l < bars[i+1].Low && l < bars[i+2].Low {
			support = append(support, l)
		}
	}

	filteredResistance := dedupLevels(resistance)
	filteredSupport := dedupLevels(support)

	above := make([]float64, 0, 3)
	for _, r := range filteredResistance {
		if r > currentPrice {
			above = append(above, r)
		}
		if len(above) == 3 {
			break
		}
	}

	// Supports below the price, closest first.
	below := make([]float64, 0, 3)
	for i := len(filteredSupport) - 1; i >= 0; i-- {
		if filteredSupport[i] < currentPrice {
			below = append(below, filteredSupport[i])
		}
		if len(below) == 3 {
			break
		}
	}

	sr := SupportResistance{
		SupportLevels:    below,
		ResistanceLevels: above,
	}
	if len(below) > 0 {
		sr.NearestSupport = below[0]
	}
	if len(above) > 0 {
		sr.NearestResistance = above[0]
	}
	return sr
}

// dedupLevels sorts levels ascending and greedily keeps a level only if
// it is not within the dedup tolerance of an already-kept one. Kept
// levels are rounded to price precision.
func dedupLevels(levels []float64) []float64 {
	sorted := append([]float64(nil), levels...)
	sort.Float64s(sorted)

	kept := make([]float64, 0, len(sorted))
	for _, level := range sorted {
		duplicate := false
		for _, k := range kept {
			if math.Abs(k-level)/level < pivotDedupTolerance {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, round2(level))
		}
	}
	return kept
}
