package model

import (
	"encoding/json"
	"time"
)

// PriceBar represents one OHLCV bar for a single instrument.
// Sequences of bars are always ordered ascending by Timestamp; the last
// element is the most recent bar.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// JSON returns the JSON-encoded bar (ignoring errors for hot-path usage).
func (b *PriceBar) JSON() []byte {
	data, _ := json.Marshal(b)
	return data
}

// Ticker is a latest-price snapshot for a symbol.
type Ticker struct {
	Symbol           string    `json:"symbol"`
	Bid              float64   `json:"bid"`
	Ask              float64   `json:"ask"`
	Last             float64   `json:"last"`
	Volume24h        float64   `json:"volume24h"`
	Change24h        float64   `json:"change24h"`
	ChangePercent24h float64   `json:"changePercent24h"`
	Timestamp        time.Time `json:"timestamp"`
}

// Timeframe is the bar interval for historical data requests.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
	TF1w  Timeframe = "1w"
)

// Valid reports whether tf is one of the supported timeframes.
func (tf Timeframe) Valid() bool {
	switch tf {
	case TF1m, TF5m, TF15m, TF30m, TF1h, TF4h, TF1d, TF1w:
		return true
	}
	return false
}

// AssetClass is the market category that determines which provider
// serves a symbol. It is a closed set: adding a venue means adding a
// constant here and handling it in every switch over AssetClass.
type AssetClass string

const (
	AssetCrypto AssetClass = "CRYPTO"
	AssetForex  AssetClass = "FOREX"
	AssetETF    AssetClass = "ETF"
)

// AssetInfo describes one tradeable symbol offered by a provider.
type AssetInfo struct {
	Symbol     string     `json:"symbol"`
	Name       string     `json:"name"`
	AssetClass AssetClass `json:"assetClass"`
	Exchange   string     `json:"exchange"`
	Tradeable  bool       `json:"tradeable"`
}

// ProviderHealth is one provider's health-check result.
type ProviderHealth struct {
	Name       string     `json:"name"`
	AssetClass AssetClass `json:"assetClass"`
	Healthy    bool       `json:"healthy"`
}
