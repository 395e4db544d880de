package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tradewatch/internal/model"
)

const (
	oandaPracticeURL = "https://api-fxpractice.oanda.com"
	oandaLiveURL     = "https://api-fxtrade.oanda.com"
)

// OandaConfig holds OANDA REST credentials.
type OandaConfig struct {
	APIKey      string
	AccountID   string
	Environment string // "practice" (default) or "live"
}

// OandaProvider serves forex symbols from the OANDA v3 REST API.
type OandaProvider struct {
	baseURL   string
	apiKey    string
	accountID string
	client    *http.Client
}

// NewOandaProvider creates an OANDA provider. Calls fail with a
// configuration error when no API key is set.
func NewOandaProvider(cfg OandaConfig) *OandaProvider {
	baseURL := oandaPracticeURL
	if cfg.Environment == "live" {
		baseURL = oandaLiveURL
	}
	return &OandaProvider{
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		accountID: cfg.AccountID,
		client:    newHTTPClient(),
	}
}

func (p *OandaProvider) Name() string            { return "OANDA" }
func (p *OandaProvider) Class() model.AssetClass { return model.AssetForex }

func (p *OandaProvider) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + p.apiKey,
		"Content-Type":  "application/json",
	}
}

// oandaGranularities maps timeframes to OANDA candle granularity codes.
var oandaGranularities = map[model.Timeframe]string{
	model.TF1m:  "M1",
	model.TF5m:  "M5",
	model.TF15m: "M15",
	model.TF30m: "M30",
	model.TF1h:  "H1",
	model.TF4h:  "H4",
	model.TF1d:  "D",
	model.TF1w:  "W",
}

// formatOandaSymbol converts "EUR/USD" to OANDA's "EUR_USD".
func formatOandaSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", "_"))
}

func (p *OandaProvider) GetBars(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.PriceBar, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("oanda: API key not configured: %w", model.ErrDataUnavailable)
	}

	url := fmt.Sprintf("%s/v3/instruments/%s/candles?granularity=%s&count=%d",
		p.baseURL, formatOandaSymbol(symbol), oandaGranularities[tf], limit)

	var data struct {
		Candles []struct {
			Time string `json:"time"`
			Mid  struct {
				O string `json:"o"`
				H string `json:"h"`
				L string `json:"l"`
				C string `json:"c"`
			} `json:"mid"`
			Volume   float64 `json:"volume"`
			Complete bool    `json:"complete"`
		} `json:"candles"`
	}
	if err := getJSON(ctx, p.client, "oanda", url, p.headers(), &data); err != nil {
		return nil, err
	}

	// Only completed candles; the forming one would repaint.
	bars := make([]model.PriceBar, 0, len(data.Candles))
	for _, c := range data.Candles {
		if !c.Complete {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, c.Time)
		if err != nil {
			return nil, fmt.Errorf("oanda: malformed candle time for %s: %w", symbol, model.ErrDataUnavailable)
		}
		bars = append(bars, model.PriceBar{
			Timestamp: ts.UTC(),
			Open:      parseFloatString(c.Mid.O),
			High:      parseFloatString(c.Mid.H),
			Low:       parseFloatString(c.Mid.L),
			Close:     parseFloatString(c.Mid.C),
			Volume:    c.Volume,
		})
	}
	return bars, nil
}

func (p *OandaProvider) GetTicker(ctx context.Context, symbol string) (model.Ticker, error) {
	if p.apiKey == "" {
		return model.Ticker{}, fmt.Errorf("oanda: API key not configured: %w", model.ErrDataUnavailable)
	}

	url := fmt.Sprintf("%s/v3/accounts/%s/pricing?instruments=%s",
		p.baseURL, p.accountID, formatOandaSymbol(symbol))

	var data struct {
		Prices []struct {
			Bids []struct {
				Price string `json:"price"`
			} `json:"bids"`
			Asks []struct {
				Price string `json:"price"`
			} `json:"asks"`
			CloseoutBid string `json:"closeoutBid"`
			CloseoutAsk string `json:"closeoutAsk"`
		} `json:"prices"`
	}
	if err := getJSON(ctx, p.client, "oanda", url, p.headers(), &data); err != nil {
		return model.Ticker{}, err
	}
	if len(data.Prices) == 0 {
		return model.Ticker{}, fmt.Errorf("oanda: no price data for %s: %w", symbol, model.ErrDataUnavailable)
	}

	price := data.Prices[0]
	bidStr := price.CloseoutBid
	if len(price.Bids) > 0 {
		bidStr = price.Bids[0].Price
	}
	askStr := price.CloseoutAsk
	if len(price.Asks) > 0 {
		askStr = price.Asks[0].Price
	}
	bid := parseFloatString(bidStr)
	ask := parseFloatString(askStr)

	// OANDA pricing has no 24h aggregates; mid is the best "last".
	return model.Ticker{
		Symbol:    symbol,
		Bid:       bid,
		Ask:       ask,
		Last:      (bid + ask) / 2,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (p *OandaProvider) GetSymbols(ctx context.Context) ([]model.AssetInfo, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("oanda: API key not configured: %w", model.ErrDataUnavailable)
	}

	url := fmt.Sprintf("%s/v3/accounts/%s/instruments", p.baseURL, p.accountID)

	var data struct {
		Instruments []struct {
			Name        string `json:"name"`
			DisplayName string `json:"displayName"`
			Type        string `json:"type"`
		} `json:"instruments"`
	}
	if err := getJSON(ctx, p.client, "oanda", url, p.headers(), &data); err != nil {
		return nil, err
	}

	var out []model.AssetInfo
	for _, inst := range data.Instruments {
		if inst.Type != "CURRENCY" {
			continue
		}
		out = append(out, model.AssetInfo{
			Symbol:     strings.ReplaceAll(inst.Name, "_", "/"),
			Name:       inst.DisplayName,
			AssetClass: model.AssetForex,
			Exchange:   "OANDA",
			Tradeable:  true,
		})
	}
	return out, nil
}

func (p *OandaProvider) Healthy(ctx context.Context) bool {
	if p.apiKey == "" {
		return false
	}
	var data struct{}
	url := fmt.Sprintf("%s/v3/accounts/%s", p.baseURL, p.accountID)
	return getJSON(ctx, p.client, "oanda", url, p.headers(), &data) == nil
}
