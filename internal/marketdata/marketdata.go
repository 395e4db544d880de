// Package marketdata routes symbols to upstream market data venues.
//
// One provider serves each asset class (Binance for crypto, OANDA for
// forex, Polygon for ETFs). The set is closed: the dispatcher switches
// exhaustively over model.AssetClass, so adding a venue is a
// compile-visible change here rather than a runtime registration.
package marketdata

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tradewatch/internal/model"
)

// Dispatcher resolves symbols to providers and fans requests out.
// It implements model.MarketData for the analysis and alert layers.
type Dispatcher struct {
	binance *BinanceProvider
	oanda   *OandaProvider
	polygon *PolygonProvider
}

// NewDispatcher creates a dispatcher over the three venue providers.
func NewDispatcher(binance *BinanceProvider, oanda *OandaProvider, polygon *PolygonProvider) *Dispatcher {
	return &Dispatcher{binance: binance, oanda: oanda, polygon: polygon}
}

// forexCurrencies are the ISO codes recognized as forex pair legs.
var forexCurrencies = map[string]bool{
	"EUR": true, "USD": true, "GBP": true, "JPY": true,
	"AUD": true, "NZD": true, "CAD": true, "CHF": true,
	"SEK": true, "NOK": true, "DKK": true, "SGD": true,
	"HKD": true, "MXN": true, "ZAR": true, "TRY": true,
}

// DetectAssetClass guesses a symbol's asset class from its shape:
// slash pairs quoted in USDT/BUSD or against BTC/ETH are crypto,
// currency/currency pairs are forex, everything else (SPY, QQQ, AAPL)
// defaults to ETF.
func DetectAssetClass(symbol string) model.AssetClass {
	upper := strings.ToUpper(symbol)

	if strings.Contains(upper, "USDT") || strings.Contains(upper, "BUSD") ||
		strings.Contains(upper, "BTC") || strings.Contains(upper, "ETH") {
		if strings.Contains(upper, "/") && !isForexPair(upper) {
			return model.AssetCrypto
		}
	}
	if isForexPair(upper) {
		return model.AssetForex
	}
	return model.AssetETF
}

func isForexPair(symbol string) bool {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 {
		return false
	}
	return forexCurrencies[parts[0]] && forexCurrencies[parts[1]]
}

// provider returns the venue serving the given asset class.
func (d *Dispatcher) provider(class model.AssetClass) (model.MarketProvider, error) {
	switch class {
	case model.AssetCrypto:
		return d.binance, nil
	case model.AssetForex:
		return d.oanda, nil
	case model.AssetETF:
		return d.polygon, nil
	default:
		return nil, fmt.Errorf("no provider for asset class %q", class)
	}
}

// GetBars fetches historical bars for symbol from its venue. The
// returned sequence is verified ascending by time; a garbled response
// maps to ErrDataUnavailable rather than being passed through.
func (d *Dispatcher) GetBars(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.PriceBar, error) {
	class := DetectAssetClass(symbol)
	p, err := d.provider(class)
	if err != nil {
		return nil, err
	}

	bars, err := p.GetBars(ctx, symbol, tf, limit)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Timestamp.Before(bars[i-1].Timestamp) {
			return nil, fmt.Errorf("%s returned out-of-order bars for %s: %w", p.Name(), symbol, model.ErrDataUnavailable)
		}
	}
	return bars, nil
}

// GetTicker fetches the latest price snapshot for symbol from its venue.
func (d *Dispatcher) GetTicker(ctx context.Context, symbol string) (model.Ticker, error) {
	class := DetectAssetClass(symbol)
	p, err := d.provider(class)
	if err != nil {
		return model.Ticker{}, err
	}
	return p.GetTicker(ctx, symbol)
}

// GetMultipleTickers fetches tickers for several symbols, dropping the
// ones that fail instead of failing the batch.
func (d *Dispatcher) GetMultipleTickers(ctx context.Context, symbols []string) []model.Ticker {
	tickers := make([]model.Ticker, 0, len(symbols))
	for _, symbol := range symbols {
		t, err := d.GetTicker(ctx, symbol)
		if err != nil {
			log.Printf("[marketdata] ticker %s: %v", symbol, err)
			continue
		}
		tickers = append(tickers, t)
	}
	return tickers
}

// GetSymbols lists the symbols tradeable for one asset class.
func (d *Dispatcher) GetSymbols(ctx context.Context, class model.AssetClass) ([]model.AssetInfo, error) {
	p, err := d.provider(class)
	if err != nil {
		return nil, err
	}
	return p.GetSymbols(ctx)
}

// AllSymbols lists symbols across every venue; a venue failure drops
// its symbols rather than failing the aggregate.
func (d *Dispatcher) AllSymbols(ctx context.Context) []model.AssetInfo {
	var out []model.AssetInfo
	for _, p := range d.all() {
		symbols, err := p.GetSymbols(ctx)
		if err != nil {
			log.Printf("[marketdata] symbols from %s: %v", p.Name(), err)
			continue
		}
		out = append(out, symbols...)
	}
	return out
}

// ProvidersHealth probes every venue.
func (d *Dispatcher) ProvidersHealth(ctx context.Context) []model.ProviderHealth {
	checks := make([]model.ProviderHealth, 0, 3)
	for _, p := range d.all() {
		checks = append(checks, model.ProviderHealth{
			Name:       p.Name(),
			AssetClass: p.Class(),
			Healthy:    p.Healthy(ctx),
		})
	}
	return checks
}

func (d *Dispatcher) all() []model.MarketProvider {
	return []model.MarketProvider{d.binance, d.oanda, d.polygon}
}
