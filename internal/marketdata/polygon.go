package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tradewatch/internal/model"
)

const polygonBaseURL = "https://api.polygon.io"

// PolygonProvider serves ETF/stock symbols from the Polygon.io REST API.
type PolygonProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewPolygonProvider creates a Polygon provider.
func NewPolygonProvider(apiKey string) *PolygonProvider {
	return &PolygonProvider{baseURL: polygonBaseURL, apiKey: apiKey, client: newHTTPClient()}
}

func (p *PolygonProvider) Name() string            { return "Polygon" }
func (p *PolygonProvider) Class() model.AssetClass { return model.AssetETF }

// polygonRanges maps timeframes to Polygon aggregate range parameters.
var polygonRanges = map[model.Timeframe]struct {
	Multiplier int
	Timespan   string
	Minutes    int
}{
	model.TF1m:  {1, "minute", 1},
	model.TF5m:  {5, "minute", 5},
	model.TF15m: {15, "minute", 15},
	model.TF30m: {30, "minute", 30},
	model.TF1h:  {1, "hour", 60},
	model.TF4h:  {4, "hour", 240},
	model.TF1d:  {1, "day", 1440},
	model.TF1w:  {1, "week", 10080},
}

func (p *PolygonProvider) GetBars(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.PriceBar, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("polygon: API key not configured: %w", model.ErrDataUnavailable)
	}

	rng := polygonRanges[tf]
	to := time.Now().UTC()
	from := to.Add(-time.Duration(rng.Minutes*limit) * time.Minute)

	url := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/%d/%s/%s/%s?adjusted=true&sort=asc&limit=%d&apiKey=%s",
		p.baseURL, strings.ToUpper(symbol), rng.Multiplier, rng.Timespan,
		from.Format("2006-01-02"), to.Format("2006-01-02"), limit, p.apiKey)

	var data struct {
		Results []struct {
			T float64 `json:"t"` // unix ms
			O float64 `json:"o"`
			H float64 `json:"h"`
			L float64 `json:"l"`
			C float64 `json:"c"`
			V float64 `json:"v"`
		} `json:"results"`
	}
	if err := getJSON(ctx, p.client, "polygon", url, nil, &data); err != nil {
		return nil, err
	}

	bars := make([]model.PriceBar, 0, len(data.Results))
	for _, r := range data.Results {
		bars = append(bars, model.PriceBar{
			Timestamp: time.UnixMilli(int64(r.T)).UTC(),
			Open:      r.O,
			High:      r.H,
			Low:       r.L,
			Close:     r.C,
			Volume:    r.V,
		})
	}
	return bars, nil
}

func (p *PolygonProvider) GetTicker(ctx context.Context, symbol string) (model.Ticker, error) {
	if p.apiKey == "" {
		return model.Ticker{}, fmt.Errorf("polygon: API key not configured: %w", model.ErrDataUnavailable)
	}

	url := fmt.Sprintf("%s/v2/snapshot/locale/us/markets/stocks/tickers/%s?apiKey=%s",
		p.baseURL, strings.ToUpper(symbol), p.apiKey)

	var data struct {
		Ticker struct {
			Day struct {
				O float64 `json:"o"`
				C float64 `json:"c"`
				V float64 `json:"v"`
			} `json:"day"`
			PrevDay struct {
				C float64 `json:"c"`
			} `json:"prevDay"`
			LastTrade struct {
				P float64 `json:"p"`
			} `json:"lastTrade"`
			LastQuote struct {
				Ask float64 `json:"P"`
				Bid float64 `json:"p"`
			} `json:"lastQuote"`
		} `json:"ticker"`
	}
	if err := getJSON(ctx, p.client, "polygon", url, nil, &data); err != nil {
		return model.Ticker{}, err
	}

	t := data.Ticker
	prevClose := t.PrevDay.C
	if prevClose == 0 {
		prevClose = t.Day.O
	}
	last := t.LastTrade.P
	if last == 0 {
		last = t.Day.C
	}
	change := last - prevClose
	changePercent := 0.0
	if prevClose > 0 {
		changePercent = change / prevClose * 100
	}

	bid := t.LastQuote.Bid
	if bid == 0 {
		bid = last
	}
	ask := t.LastQuote.Ask
	if ask == 0 {
		ask = last
	}

	return model.Ticker{
		Symbol:           symbol,
		Bid:              bid,
		Ask:              ask,
		Last:             last,
		Volume24h:        t.Day.V,
		Change24h:        change,
		ChangePercent24h: changePercent,
		Timestamp:        time.Now().UTC(),
	}, nil
}

func (p *PolygonProvider) GetSymbols(ctx context.Context) ([]model.AssetInfo, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("polygon: API key not configured: %w", model.ErrDataUnavailable)
	}

	url := fmt.Sprintf("%s/v3/reference/tickers?type=ETF&market=stocks&active=true&limit=100&apiKey=%s",
		p.baseURL, p.apiKey)

	var data struct {
		Results []struct {
			Ticker string `json:"ticker"`
			Name   string `json:"name"`
			Active bool   `json:"active"`
		} `json:"results"`
	}
	if err := getJSON(ctx, p.client, "polygon", url, nil, &data); err != nil {
		return nil, err
	}

	out := make([]model.AssetInfo, 0, len(data.Results))
	for _, r := range data.Results {
		out = append(out, model.AssetInfo{
			Symbol:     r.Ticker,
			Name:       r.Name,
			AssetClass: model.AssetETF,
			Exchange:   "US",
			Tradeable:  r.Active,
		})
	}
	return out, nil
}

func (p *PolygonProvider) Healthy(ctx context.Context) bool {
	if p.apiKey == "" {
		return false
	}
	var data struct{}
	url := fmt.Sprintf("%s/v1/marketstatus/now?apiKey=%s", p.baseURL, p.apiKey)
	return getJSON(ctx, p.client, "polygon", url, nil, &data) == nil
}
