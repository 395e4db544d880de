package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradewatch/internal/model"
)

const binanceBaseURL = "https://api.binance.com/api/v3"

// BinanceProvider serves crypto symbols from the Binance public REST API.
type BinanceProvider struct {
	baseURL string
	client  *http.Client
}

// NewBinanceProvider creates a Binance provider. No credentials needed:
// klines and 24h tickers are public endpoints.
func NewBinanceProvider() *BinanceProvider {
	return &BinanceProvider{baseURL: binanceBaseURL, client: newHTTPClient()}
}

func (p *BinanceProvider) Name() string            { return "Binance" }
func (p *BinanceProvider) Class() model.AssetClass { return model.AssetCrypto }

// formatSymbol converts "BTC/USDT" to Binance's "BTCUSDT".
func formatBinanceSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}

// parseBinanceSymbol converts "BTCUSDT" back to "BTC/USDT" using the
// common quote assets.
func parseBinanceSymbol(binanceSymbol string) string {
	for _, quote := range []string{"USDT", "BUSD", "BTC", "ETH", "BNB"} {
		if strings.HasSuffix(binanceSymbol, quote) && len(binanceSymbol) > len(quote) {
			return binanceSymbol[:len(binanceSymbol)-len(quote)] + "/" + quote
		}
	}
	return binanceSymbol
}

func (p *BinanceProvider) GetBars(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.PriceBar, error) {
	// Binance interval names match our Timeframe constants directly.
	url := fmt.Sprintf("%s/klines?symbol=%s&interval=%s&limit=%d",
		p.baseURL, formatBinanceSymbol(symbol), tf, limit)

	// Klines come back as positional arrays of mixed strings and numbers:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var klines [][]interface{}
	if err := getJSON(ctx, p.client, "binance", url, nil, &klines); err != nil {
		return nil, err
	}

	bars := make([]model.PriceBar, 0, len(klines))
	for _, k := range klines {
		if len(k) < 6 {
			return nil, fmt.Errorf("binance: malformed kline for %s: %w", symbol, model.ErrDataUnavailable)
		}
		openTime, ok := k[0].(float64)
		if !ok {
			return nil, fmt.Errorf("binance: malformed kline timestamp for %s: %w", symbol, model.ErrDataUnavailable)
		}
		bars = append(bars, model.PriceBar{
			Timestamp: time.UnixMilli(int64(openTime)).UTC(),
			Open:      parseFloatField(k[1]),
			High:      parseFloatField(k[2]),
			Low:       parseFloatField(k[3]),
			Close:     parseFloatField(k[4]),
			Volume:    parseFloatField(k[5]),
		})
	}
	return bars, nil
}

func (p *BinanceProvider) GetTicker(ctx context.Context, symbol string) (model.Ticker, error) {
	url := fmt.Sprintf("%s/ticker/24hr?symbol=%s", p.baseURL, formatBinanceSymbol(symbol))

	var data struct {
		BidPrice           string `json:"bidPrice"`
		AskPrice           string `json:"askPrice"`
		LastPrice          string `json:"lastPrice"`
		Volume             string `json:"volume"`
		PriceChange        string `json:"priceChange"`
		PriceChangePercent string `json:"priceChangePercent"`
	}
	if err := getJSON(ctx, p.client, "binance", url, nil, &data); err != nil {
		return model.Ticker{}, err
	}

	return model.Ticker{
		Symbol:           symbol,
		Bid:              parseFloatString(data.BidPrice),
		Ask:              parseFloatString(data.AskPrice),
		Last:             parseFloatString(data.LastPrice),
		Volume24h:        parseFloatString(data.Volume),
		Change24h:        parseFloatString(data.PriceChange),
		ChangePercent24h: parseFloatString(data.PriceChangePercent),
		Timestamp:        time.Now().UTC(),
	}, nil
}

func (p *BinanceProvider) GetSymbols(ctx context.Context) ([]model.AssetInfo, error) {
	url := p.baseURL + "/exchangeInfo"

	var data struct {
		Symbols []struct {
			Symbol     string `json:"symbol"`
			BaseAsset  string `json:"baseAsset"`
			QuoteAsset string `json:"quoteAsset"`
			Status     string `json:"status"`
		} `json:"symbols"`
	}
	if err := getJSON(ctx, p.client, "binance", url, nil, &data); err != nil {
		return nil, err
	}

	// Only actively trading USDT pairs.
	var out []model.AssetInfo
	for _, s := range data.Symbols {
		if s.Status != "TRADING" || s.QuoteAsset != "USDT" {
			continue
		}
		out = append(out, model.AssetInfo{
			Symbol:     parseBinanceSymbol(s.Symbol),
			Name:       s.BaseAsset + "/" + s.QuoteAsset,
			AssetClass: model.AssetCrypto,
			Exchange:   "Binance",
			Tradeable:  true,
		})
	}
	return out, nil
}

func (p *BinanceProvider) Healthy(ctx context.Context) bool {
	var data struct{}
	return getJSON(ctx, p.client, "binance", p.baseURL+"/ping", nil, &data) == nil
}

// parseFloatField parses a kline field that may arrive as a JSON
// string or number.
func parseFloatField(v interface{}) float64 {
	switch t := v.(type) {
	case string:
		return parseFloatString(t)
	case float64:
		return t
	}
	return 0
}

func parseFloatString(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
