// Package metrics exposes Prometheus instrumentation and the
// health/metrics HTTP server for the alert engine.
package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the alert engine.
type Metrics struct {
	// Evaluation loop
	TicksTotal   prometheus.Counter
	TicksSkipped prometheus.Counter
	TickDuration prometheus.Histogram
	ActiveAlerts prometheus.Gauge

	AlertsEvaluated prometheus.Counter
	AlertsFired     *prometheus.CounterVec // labels: type
	FetchErrors     *prometheus.CounterVec // labels: kind (ticker|analysis)

	// Analysis layer
	AnalysisComputeDur prometheus.Histogram
	AnalysisCacheHits  prometheus.Counter
	AnalysisCacheMiss  prometheus.Counter

	// Notification fan-out
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter

	// Push gateway
	WSClients prometheus.Gauge
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertengine_ticks_total",
			Help: "Completed alert evaluation ticks",
		}),
		TicksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertengine_ticks_skipped_total",
			Help: "Ticks skipped because the previous one was still running",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "alertengine_tick_duration_seconds",
			Help:    "Full evaluation tick latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ActiveAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alertengine_active_alerts",
			Help: "ACTIVE alerts loaded at the last tick",
		}),
		AlertsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertengine_alerts_evaluated_total",
			Help: "Alert conditions evaluated",
		}),
		AlertsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alertengine_alerts_fired_total",
			Help: "Alerts transitioned to TRIGGERED (by condition type)",
		}, []string{"type"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alertengine_fetch_errors_total",
			Help: "Per-symbol data fetch failures during evaluation",
		}, []string{"kind"}),
		AnalysisComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "alertengine_analysis_compute_duration_seconds",
			Help:    "Indicator + level + trend compute latency per snapshot",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		AnalysisCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertengine_analysis_cache_hits_total",
			Help: "Analysis snapshots served from the Redis cache",
		}),
		AnalysisCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertengine_analysis_cache_misses_total",
			Help: "Analysis snapshots computed fresh",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertengine_notifications_sent_total",
			Help: "Fired-alert notifications delivered",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertengine_notifications_failed_total",
			Help: "Fired-alert notification delivery failures",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alertengine_ws_clients",
			Help: "Connected WebSocket push clients",
		}),
	}

	prometheus.MustRegister(
		m.TicksTotal,
		m.TicksSkipped,
		m.TickDuration,
		m.ActiveAlerts,
		m.AlertsEvaluated,
		m.AlertsFired,
		m.FetchErrors,
		m.AnalysisComputeDur,
		m.AnalysisCacheHits,
		m.AnalysisCacheMiss,
		m.NotificationsSent,
		m.NotificationsFailed,
		m.WSClients,
	)

	return m
}

// HealthStatus represents the engine's dependency health.
type HealthStatus struct {
	mu sync.RWMutex

	SQLiteOK       bool
	RedisConnected bool
	LastTickTime   time.Time

	// Liveness probe results
	RedisLatencyMs  float64
	SQLiteLatencyMs float64
	LastCheckAt     time.Time
	StartedAt       time.Time
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt: time.Now(),
	}
}

func (h *HealthStatus) SetLastTickTime(t time.Time) {
	h.mu.Lock()
	h.LastTickTime = t
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// CheckSQLite runs a trivial query and records latency + health.
func (h *HealthStatus) CheckSQLite(ctx context.Context, db *sql.DB) {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start)

	h.mu.Lock()
	h.SQLiteOK = err == nil
	h.SQLiteLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartLivenessChecker runs periodic dependency checks.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, sqlDB *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				if rdb != nil {
					h.CheckRedis(probeCtx, rdb)
				}
				if sqlDB != nil {
					h.CheckSQLite(probeCtx, sqlDB)
				}
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	// SQLite holds alert state, so losing it is fatal. Redis is only a
	// snapshot cache: without it evaluation still runs, just slower.
	overallStatus := "healthy"
	httpCode := http.StatusOK
	if !h.SQLiteOK {
		overallStatus = "unhealthy"
		httpCode = http.StatusServiceUnavailable
	} else if !h.RedisConnected {
		overallStatus = "degraded"
	}

	tickAge := ""
	if !h.LastTickTime.IsZero() {
		tickAge = time.Since(h.LastTickTime).Round(time.Millisecond).String()
	}

	status := struct {
		Status          string  `json:"status"`
		Uptime          string  `json:"uptime"`
		LastTickTime    string  `json:"last_tick_time"`
		TickAge         string  `json:"tick_age"`
		SQLiteOK        bool    `json:"sqlite_ok"`
		SQLiteLatencyMs float64 `json:"sqlite_latency_ms"`
		RedisConnected  bool    `json:"redis_connected"`
		RedisLatencyMs  float64 `json:"redis_latency_ms"`
		LastCheckAt     string  `json:"last_check_at"`
	}{
		Status:          overallStatus,
		Uptime:          time.Since(h.StartedAt).Round(time.Second).String(),
		LastTickTime:    h.LastTickTime.Format(time.RFC3339),
		TickAge:         tickAge,
		SQLiteOK:        h.SQLiteOK,
		SQLiteLatencyMs: h.SQLiteLatencyMs,
		RedisConnected:  h.RedisConnected,
		RedisLatencyMs:  h.RedisLatencyMs,
		LastCheckAt:     h.LastCheckAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	health *HealthStatus
	addr   string
	mux    *http.ServeMux
	srv    *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		health: health,
		addr:   addr,
		mux:    mux,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Handle registers an extra route on the server's mux before Start.
// The WebSocket push endpoint rides on this server.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

// Mux exposes the underlying mux so other packages can register
// route groups before Start.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
