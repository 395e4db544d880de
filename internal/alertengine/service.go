// Package alertengine is the top-level orchestrator: it wires the
// providers, stores, analyzer, notification channels and the recurring
// alert checker, and owns their lifecycle.
package alertengine

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"tradewatch/config"
	"tradewatch/internal/alerts"
	"tradewatch/internal/analysis"
	"tradewatch/internal/api"
	"tradewatch/internal/gateway"
	"tradewatch/internal/marketdata"
	"tradewatch/internal/metrics"
	"tradewatch/internal/model"
	"tradewatch/internal/notification"
	redisstore "tradewatch/internal/store/redis"
	sqlitestore "tradewatch/internal/store/sqlite"
)

const livenessInterval = 15 * time.Second

// Service wires all engine subsystems and coordinates their lifecycle.
type Service struct {
	cfg *config.Config

	store    *sqlitestore.Store
	cache    *redisstore.Cache
	data     *marketdata.Dispatcher
	analyzer *analysis.Analyzer
	alertSvc *alerts.Service
	checker  *alerts.Checker
	hub      *gateway.Hub

	prom       *metrics.Metrics
	health     *metrics.HealthStatus
	httpServer *metrics.Server
}

// New creates a Service from the given Config. It connects to SQLite
// and Redis; Redis is optional and its absence only disables caching.
func New(cfg *config.Config) (*Service, error) {
	svc := &Service{
		cfg:    cfg,
		prom:   metrics.NewMetrics(),
		health: metrics.NewHealthStatus(),
	}

	// ---- Open SQLite ----
	os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755)
	store, err := sqlitestore.New(sqlitestore.StoreConfig{DBPath: cfg.SQLitePath})
	if err != nil {
		return nil, err
	}
	svc.store = store

	// ---- Connect to Redis (optional) ----
	cache, err := redisstore.New(redisstore.CacheConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Printf("[alertengine] WARNING: redis init failed: %v (continuing without snapshot cache)", err)
	} else {
		svc.cache = cache
	}

	// ---- Market data providers ----
	svc.data = marketdata.NewDispatcher(
		marketdata.NewBinanceProvider(),
		marketdata.NewOandaProvider(marketdata.OandaConfig{
			APIKey:      cfg.OandaAPIKey,
			AccountID:   cfg.OandaAccountID,
			Environment: cfg.OandaEnvironment,
		}),
		marketdata.NewPolygonProvider(cfg.PolygonAPIKey),
	)

	// ---- Analysis ----
	var analysisCache model.AnalysisCache
	if svc.cache != nil {
		analysisCache = svc.cache
	}
	svc.analyzer = analysis.NewAnalyzer(svc.data, analysisCache, svc.prom)

	// ---- Notification fan-out ----
	svc.hub = gateway.NewHub(svc.prom)
	notifiers := []model.Notifier{notification.NewLogNotifier(), svc.hub}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifiers = append(notifiers, notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
		log.Println("[alertengine] telegram channel enabled")
	}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notification.NewWebhookNotifier(cfg.WebhookURL))
		log.Println("[alertengine] webhook channel enabled")
	}
	notifier := notification.NewMulti(notifiers...)

	// ---- Alert service + checker ----
	svc.alertSvc = alerts.NewService(store)
	svc.checker = alerts.NewChecker(store, svc.data, svc.analyzer, notifier, svc.prom, cfg.CheckInterval)

	return svc, nil
}

// Run starts all subsystems and blocks until ctx is cancelled.
func (svc *Service) Run(ctx context.Context) error {
	log.Println("[alertengine] starting alert engine...")

	// ---- HTTP: metrics, health, REST API, WebSocket push ----
	svc.httpServer = metrics.NewServer(svc.cfg.MetricsAddr, svc.health)
	apiServer := api.NewServer(svc.alertSvc, svc.analyzer, svc.data)
	apiServer.Routes(svc.httpServer.Mux())
	svc.httpServer.Mux().HandleFunc("/ws", svc.hub.HandleWS)
	svc.httpServer.Start()

	// ---- Liveness probes ----
	var rdb = svc.redisClient()
	svc.health.StartLivenessChecker(ctx, rdb, svc.store.DB(), livenessInterval)

	// ---- Gateway pump ----
	go svc.hub.Run(ctx)

	// ---- Evaluation loop ----
	svc.checker.OnTick = svc.health.SetLastTickTime
	if err := svc.checker.Start(); err != nil {
		return err
	}

	log.Printf("[alertengine] all systems running: interval=%s http=%s sqlite=%s",
		svc.cfg.CheckInterval, svc.cfg.MetricsAddr, svc.cfg.SQLitePath)

	<-ctx.Done()
	svc.shutdown()
	return nil
}

func (svc *Service) redisClient() *goredis.Client {
	if svc.cache != nil {
		return svc.cache.Client()
	}
	return nil
}

// shutdown stops the checker and closes connections.
func (svc *Service) shutdown() {
	log.Println("[alertengine] shutdown signal received...")

	svc.checker.Stop()

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	svc.httpServer.Stop(shutCtx)

	if svc.cache != nil {
		svc.cache.Close()
	}
	svc.store.Close()

	log.Println("[alertengine] shutdown complete.")
}
