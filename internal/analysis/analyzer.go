// Package analysis builds immutable technical-analysis snapshots for a
// (symbol, timeframe) pair: all indicators, pivot levels and the fused
// overall trend. Snapshots are the unit consumed by the alert checker,
// AI prompting and UI layers, so their shape is a published contract.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"tradewatch/internal/indicator"
	"tradewatch/internal/metrics"
	"tradewatch/internal/model"
)

const (
	// MinBars is the floor below which analysis fails outright rather
	// than letting zero-degraded indicators dominate.
	MinBars = 50

	// fetchBars is the history depth requested from the provider; the
	// slowest indicator (SMA200) needs at least 200 bars.
	fetchBars = 200

	// cacheTTL keeps a snapshot shared across one evaluation cadence.
	cacheTTL = 30 * time.Second
)

// Snapshot is one complete analysis result. Created fresh per request
// and never mutated after construction.
type Snapshot struct {
	Symbol            string                         `json:"symbol"`
	Timeframe         model.Timeframe                `json:"timeframe"`
	CurrentPrice      float64                        `json:"currentPrice"`
	OverallTrend      indicator.Signal               `json:"overallTrend"`
	SignalStrength    int                            `json:"signalStrength"`
	RSI               indicator.Result               `json:"rsi"`
	MACD              indicator.MACDResult           `json:"macd"`
	MovingAverages    indicator.MovingAveragesResult `json:"movingAverages"`
	BollingerBands    indicator.BollingerResult      `json:"bollingerBands"`
	Stochastic        indicator.Result               `json:"stochastic"`
	ATR               indicator.Result               `json:"atr"`
	SupportResistance indicator.SupportResistance    `json:"supportResistance"`
	Timestamp         time.Time                      `json:"timestamp"`
}

// QuickScanResult is the cheap setup screen derived from a snapshot.
type QuickScanResult struct {
	HasSetup  bool             `json:"hasSetup"`
	Direction indicator.Signal `json:"direction"`
}

// Analyzer computes snapshots from provider data. A non-nil cache
// short-circuits recomputation within the cache TTL so the alert
// checker and API consumers share one snapshot per tick.
type Analyzer struct {
	data  model.MarketData
	cache model.AnalysisCache // optional, may be nil
	prom  *metrics.Metrics    // optional, may be nil
}

// NewAnalyzer creates an Analyzer over the given series accessor.
// prom may be nil to disable instrumentation.
func NewAnalyzer(data model.MarketData, cache model.AnalysisCache, prom *metrics.Metrics) *Analyzer {
	return &Analyzer{data: data, cache: cache, prom: prom}
}

// Analyze fetches history for symbol at the given timeframe and
// computes a full snapshot. At least MinBars bars must come back or an
// InsufficientDataError is returned. limit below fetchBars is raised to
// fetchBars so the slow moving averages have real values.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, tf model.Timeframe, limit int) (*Snapshot, error) {
	if tf == "" {
		tf = model.TF1h
	}
	if !tf.Valid() {
		return nil, fmt.Errorf("analyze %s: unknown timeframe %q", symbol, tf)
	}

	cacheKey := fmt.Sprintf("analysis:%s:%s", symbol, tf)
	if snap := a.fromCache(ctx, cacheKey); snap != nil {
		if a.prom != nil {
			a.prom.AnalysisCacheHits.Inc()
		}
		return snap, nil
	}
	if a.prom != nil {
		a.prom.AnalysisCacheMiss.Inc()
	}

	if limit < fetchBars {
		limit = fetchBars
	}
	bars, err := a.data.GetBars(ctx, symbol, tf, limit)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	if len(bars) < MinBars {
		return nil, &model.InsufficientDataError{Got: len(bars), Need: MinBars}
	}

	start := time.Now()
	snap := BuildSnapshot(symbol, tf, bars)
	if a.prom != nil {
		a.prom.AnalysisComputeDur.Observe(time.Since(start).Seconds())
	}
	a.toCache(ctx, cacheKey, snap)
	return snap, nil
}

// BuildSnapshot computes all indicators, pivots and the fused trend
// over an already-fetched bar sequence. Pure, no I/O.
func BuildSnapshot(symbol string, tf model.Timeframe, bars []model.PriceBar) *Snapshot {
	rsi := indicator.RSI(bars, indicator.DefaultRSIPeriod)
	macd := indicator.MACD(bars, indicator.DefaultMACDFast, indicator.DefaultMACDSlow, indicator.DefaultMACDSignal)
	mas := indicator.MovingAverages(bars)
	bb := indicator.Bollinger(bars, indicator.DefaultBollingerPeriod, indicator.DefaultBollingerStdDev)
	stoch := indicator.Stochastic(bars, indicator.DefaultStochasticPeriod, indicator.DefaultStochasticSignal)
	atr := indicator.ATR(bars, indicator.DefaultATRPeriod)
	levels := indicator.Pivots(bars)

	trend, strength := fuseTrend(rsi.Signal, macd.Signal, mas.Signal, bb.Signal, stoch.Signal)

	currentPrice := bars[len(bars)-1].Close
	return &Snapshot{
		Symbol:            symbol,
		Timeframe:         tf,
		CurrentPrice:      round2(currentPrice),
		OverallTrend:      trend,
		SignalStrength:    strength,
		RSI:               rsi,
		MACD:              macd,
		MovingAverages:    mas,
		BollingerBands:    bb,
		Stochastic:        stoch,
		ATR:               atr,
		SupportResistance: levels,
		Timestamp:         time.Now().UTC(),
	}
}

// QuickScan reports whether symbol currently shows a tradeable setup:
// signal strength of at least 7 with a non-neutral trend on the 1h
// timeframe. Analysis failures degrade to no-setup instead of erroring.
func (a *Analyzer) QuickScan(ctx context.Context, symbol string) QuickScanResult {
	snap, err := a.Analyze(ctx, symbol, model.TF1h, 100)
	if err != nil {
		log.Printf("[analysis] quick scan failed for %s: %v", symbol, err)
		return QuickScanResult{HasSetup: false, Direction: indicator.Neutral}
	}
	return QuickScanResult{
		HasSetup:  snap.SignalStrength >= 7 && snap.OverallTrend != indicator.Neutral,
		Direction: snap.OverallTrend,
	}
}

func (a *Analyzer) fromCache(ctx context.Context, key string) *Snapshot {
	if a.cache == nil {
		return nil
	}
	data, err := a.cache.GetAnalysisJSON(ctx, key)
	if err != nil {
		log.Printf("[analysis] cache read %s: %v", key, err)
		return nil
	}
	if data == nil {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("[analysis] cache decode %s: %v", key, err)
		return nil
	}
	return &snap
}

func (a *Analyzer) toCache(ctx context.Context, key string, snap *Snapshot) {
	if a.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := a.cache.SetAnalysisJSON(ctx, key, data, cacheTTL); err != nil {
		log.Printf("[analysis] cache write %s: %v", key, err)
	}
}

// round2 rounds to price precision, matching the indicator package.
func round2(v float64) float64 { return math.Round(v*100) / 100 }
