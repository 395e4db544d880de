package model

import (
	"context"
	"time"
)

// ── Port Interfaces ──
// These interfaces decouple the evaluation core from concrete
// collaborators (HTTP providers, SQLite, Redis, Telegram, WebSocket).
// Each implementation satisfies one or more of these interfaces.

// MarketProvider is one upstream market data venue. Each provider
// serves exactly one asset class; the marketdata dispatcher routes
// symbols to providers by class.
type MarketProvider interface {
	// Name returns the provider name (e.g. "Binance").
	Name() string

	// Class returns the asset class this provider serves.
	Class() AssetClass

	// GetBars fetches up to limit bars for symbol at the given
	// timeframe, ascending by time. Returns ErrDataUnavailable
	// (wrapped) on fetch failure, never a partial sequence.
	GetBars(ctx context.Context, symbol string, tf Timeframe, limit int) ([]PriceBar, error)

	// GetTicker fetches the latest price snapshot for symbol.
	GetTicker(ctx context.Context, symbol string) (Ticker, error)

	// GetSymbols lists symbols tradeable on this venue.
	GetSymbols(ctx context.Context) ([]AssetInfo, error)

	// Healthy reports whether the venue is reachable.
	Healthy(ctx context.Context) bool
}

// MarketData is the consumer-facing series accessor: the provider
// dispatcher implements it, and the analyzer and alert checker depend
// on it rather than on any concrete venue.
type MarketData interface {
	GetBars(ctx context.Context, symbol string, tf Timeframe, limit int) ([]PriceBar, error)
	GetTicker(ctx context.Context, symbol string) (Ticker, error)
}

// AlertStore persists alert records.
type AlertStore interface {
	// Create inserts a new alert record.
	Create(ctx context.Context, alert Alert) error

	// ListActive returns every alert with status ACTIVE, across all
	// owners. The evaluation loop filters on status here so a record
	// it already triggered is never seen again.
	ListActive(ctx context.Context) ([]Alert, error)

	// ListByOwner returns all of one owner's alerts, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Alert, error)

	// Find returns one alert scoped to its owner.
	// Returns ErrAlertNotFound if absent or owned by someone else.
	Find(ctx context.Context, id, ownerID string) (Alert, error)

	// Update applies a partial update to one alert.
	Update(ctx context.Context, id string, patch AlertPatch) error

	// Delete removes an alert record outright.
	Delete(ctx context.Context, id string) error

	// Close releases underlying resources.
	Close() error
}

// Notifier delivers fired-alert events to an external channel.
// Delivery is best-effort: the checker logs errors and moves on.
type Notifier interface {
	Send(ctx context.Context, event AlertFiredEvent) error
}

// AnalysisCache stores analysis snapshots as raw JSON with a TTL.
// Using []byte avoids a model→analysis→model import cycle.
type AnalysisCache interface {
	// GetAnalysisJSON returns the cached snapshot for a key, or
	// nil, nil on a cache miss.
	GetAnalysisJSON(ctx context.Context, key string) ([]byte, error)

	// SetAnalysisJSON stores a JSON-encoded snapshot under key.
	SetAnalysisJSON(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Close releases underlying resources.
	Close() error
}
