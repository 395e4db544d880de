package alerts

import (
	"fmt"
	"log"

	"tradewatch/internal/analysis"
	"tradewatch/internal/indicator"
	"tradewatch/internal/model"
)

// evaluate decides whether an alert's condition is met against the
// current price and (for indicator conditions) an analysis snapshot.
// It returns the fired flag and the notification message.
//
// Malformed conditions (a missing threshold, a nil snapshot for a
// condition that needs one) read as "not met", never as an error:
// the alert simply stays ACTIVE for the next tick.
//
// The switch is exhaustive over AlertType: a new condition type fails
// review here until it gets an evaluation rule.
func evaluate(alert model.Alert, currentPrice float64, snap *analysis.Snapshot) (bool, string) {
	switch alert.Type {
	case model.AlertPriceAbove:
		if alert.TargetPrice != nil && currentPrice >= *alert.TargetPrice {
			return true, fmt.Sprintf("%s price crossed above $%v. Current: $%.2f",
				alert.Symbol, *alert.TargetPrice, currentPrice)
		}

	case model.AlertPriceBelow:
		if alert.TargetPrice != nil && currentPrice <= *alert.TargetPrice {
			return true, fmt.Sprintf("%s price crossed below $%v. Current: $%.2f",
				alert.Symbol, *alert.TargetPrice, currentPrice)
		}

	case model.AlertPriceCross:
		// TODO: detecting a cross in either direction needs the price
		// from the previous tick; until that memory exists this
		// condition never fires.

	case model.AlertRSIOverbought:
		if snap != nil && alert.RSIThreshold != nil && snap.RSI.Value >= *alert.RSIThreshold {
			return true, fmt.Sprintf("%s RSI is overbought at %.1f", alert.Symbol, snap.RSI.Value)
		}

	case model.AlertRSIOversold:
		if snap != nil && alert.RSIThreshold != nil && snap.RSI.Value <= *alert.RSIThreshold {
			return true, fmt.Sprintf("%s RSI is oversold at %.1f", alert.Symbol, snap.RSI.Value)
		}

	case model.AlertMACDBullish:
		if snap != nil && snap.MACD.Signal == indicator.Bullish {
			return true, fmt.Sprintf("%s MACD bullish crossover detected", alert.Symbol)
		}

	case model.AlertMACDBearish:
		if snap != nil && snap.MACD.Signal == indicator.Bearish {
			return true, fmt.Sprintf("%s MACD bearish crossover detected", alert.Symbol)
		}

	case model.AlertAIOpportunity:
		if snap != nil && alert.MinSignalStrength != nil && snap.SignalStrength >= *alert.MinSignalStrength {
			return true, fmt.Sprintf("%s AI signal strength %d/10 (%s)",
				alert.Symbol, snap.SignalStrength, snap.OverallTrend)
		}

	default:
		log.Printf("[alerts] unknown alert type: %s", alert.Type)
	}

	return false, ""
}
