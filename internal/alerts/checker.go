package alerts

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"tradewatch/internal/analysis"
	"tradewatch/internal/marketdata"
	"tradewatch/internal/markethours"
	"tradewatch/internal/metrics"
	"tradewatch/internal/model"
)

// DefaultCheckInterval is the evaluation cadence.
const DefaultCheckInterval = 30 * time.Second

// SnapshotSource produces analysis snapshots for indicator conditions.
// Satisfied by *analysis.Analyzer; a fake stands in for it in tests.
type SnapshotSource interface {
	Analyze(ctx context.Context, symbol string, tf model.Timeframe, limit int) (*analysis.Snapshot, error)
}

// Checker is the recurring evaluation job. On every tick it loads all
// ACTIVE alerts, groups them by symbol, fetches fresh data once per
// symbol and fires matching conditions.
//
// Lifecycle is Start/Stop, owned by the process's composition root;
// one timer per process, cancelled on shutdown. Ticks never overlap: a
// tick that would start while the previous one still runs is skipped.
type Checker struct {
	store    model.AlertStore
	data     model.MarketData
	analyzer SnapshotSource
	notifier model.Notifier
	prom     *metrics.Metrics
	interval time.Duration

	// OnTick, when set, is called with the completion time of every
	// evaluation pass. The health endpoint reports staleness from it.
	OnTick func(time.Time)

	cron    *cron.Cron
	running atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewChecker wires an evaluation checker. notifier receives fired-alert
// events best-effort; prom may be nil to disable instrumentation.
func NewChecker(store model.AlertStore, data model.MarketData, analyzer SnapshotSource,
	notifier model.Notifier, prom *metrics.Metrics, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Checker{
		store:    store,
		data:     data,
		analyzer: analyzer,
		notifier: notifier,
		prom:     prom,
		interval: interval,
	}
}

// Start registers the recurring tick and starts the timer.
func (c *Checker) Start() error {
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.cron = cron.New()
	if _, err := c.cron.AddFunc(fmt.Sprintf("@every %s", c.interval), c.tick); err != nil {
		return fmt.Errorf("register alert check: %w", err)
	}
	c.cron.Start()
	log.Printf("[alerts] checker started, interval %s", c.interval)
	return nil
}

// Stop halts the timer and cancels any in-flight tick.
func (c *Checker) Stop() {
	if c.cron != nil {
		c.cron.Stop()
	}
	if c.cancel != nil {
		c.cancel()
	}
	log.Println("[alerts] checker stopped")
}

// tick is the cron entry point: single-flight guarded, bounded by the
// check interval.
func (c *Checker) tick() {
	if !c.running.CompareAndSwap(false, true) {
		log.Println("[alerts] previous evaluation still running, skipping tick")
		if c.prom != nil {
			c.prom.TicksSkipped.Inc()
		}
		return
	}
	defer c.running.Store(false)

	ctx, cancel := context.WithTimeout(c.ctx, c.interval)
	defer cancel()
	c.CheckNow(ctx)
}

// CheckNow runs one full evaluation pass. Exported for manual triggers
// and tests; the cron tick adds the single-flight guard around it.
func (c *Checker) CheckNow(ctx context.Context) {
	start := time.Now()

	active, err := c.store.ListActive(ctx)
	if err != nil {
		log.Printf("[alerts] load active alerts: %v", err)
		return
	}
	if c.prom != nil {
		c.prom.ActiveAlerts.Set(float64(len(active)))
	}
	if len(active) == 0 {
		// An empty pass still counts as a completed tick.
		if c.prom != nil {
			c.prom.TicksTotal.Inc()
		}
		if c.OnTick != nil {
			c.OnTick(time.Now())
		}
		return
	}

	groups := make(map[string][]model.Alert)
	for _, a := range active {
		groups[a.Symbol] = append(groups[a.Symbol], a)
	}

	// Symbol groups are independent: each reads the shared snapshot
	// loaded above and writes only its own alerts' state.
	var wg sync.WaitGroup
	for symbol, group := range groups {
		wg.Add(1)
		go func(symbol string, group []model.Alert) {
			defer wg.Done()
			c.checkSymbol(ctx, symbol, group)
		}(symbol, group)
	}
	wg.Wait()

	if c.prom != nil {
		c.prom.TicksTotal.Inc()
		c.prom.TickDuration.Observe(time.Since(start).Seconds())
	}
	if c.OnTick != nil {
		c.OnTick(time.Now())
	}
	log.Printf("[alerts] evaluated %d alerts across %d symbols in %v",
		len(active), len(groups), time.Since(start).Round(time.Millisecond))
}

// checkSymbol evaluates one symbol's alerts. Any data failure is
// logged and contained here: the group's alerts stay ACTIVE and other
// groups are unaffected.
func (c *Checker) checkSymbol(ctx context.Context, symbol string, group []model.Alert) {
	// A closed market serves stale quotes; evaluating against them
	// would fire alerts on Friday's close all weekend.
	class := marketdata.DetectAssetClass(symbol)
	if !markethours.IsOpen(class, time.Now()) {
		return
	}

	ticker, err := c.data.GetTicker(ctx, symbol)
	if err != nil {
		log.Printf("[alerts] failed to check alerts for %s: %v", symbol, err)
		if c.prom != nil {
			c.prom.FetchErrors.WithLabelValues("ticker").Inc()
		}
		return
	}
	currentPrice := ticker.Last

	// Analysis snapshots are fetched lazily, once per timeframe, and
	// only when the group actually contains an indicator condition;
	// pure price alerts never pay for indicator computation.
	snaps := make(map[model.Timeframe]*analysis.Snapshot)
	snapshotFor := func(alert model.Alert) *analysis.Snapshot {
		tf := alert.Timeframe
		if tf == "" {
			tf = model.TF1h
		}
		if snap, ok := snaps[tf]; ok {
			return snap
		}
		snap, err := c.analyzer.Analyze(ctx, symbol, tf, 200)
		if err != nil {
			log.Printf("[alerts] failed to get analysis for %s %s: %v", symbol, tf, err)
			if c.prom != nil {
				c.prom.FetchErrors.WithLabelValues("analysis").Inc()
			}
			snap = nil
		}
		snaps[tf] = snap
		return snap
	}

	for _, alert := range group {
		var snap *analysis.Snapshot
		if alert.Type.NeedsAnalysis() {
			snap = snapshotFor(alert)
			if snap == nil {
				continue
			}
		}

		if c.prom != nil {
			c.prom.AlertsEvaluated.Inc()
		}
		fired, message := evaluate(alert, currentPrice, snap)
		if fired {
			c.trigger(ctx, alert, currentPrice, message)
		}
	}
}

// trigger performs the ACTIVE→TRIGGERED transition, emits the fired
// event and spawns the repeat sibling. The store update happens first:
// if it fails nothing is emitted, preserving at-most-one transition
// per record.
func (c *Checker) trigger(ctx context.Context, alert model.Alert, price float64, message string) {
	now := time.Now().UTC()
	triggered := model.StatusTriggered
	patch := model.AlertPatch{
		Status:         &triggered,
		TriggeredAt:    &now,
		TriggeredPrice: &price,
	}
	if err := c.store.Update(ctx, alert.ID, patch); err != nil {
		log.Printf("[alerts] mark triggered %s: %v", alert.ID, err)
		return
	}

	log.Printf("[alerts] alert triggered: %s - %s", alert.ID, message)
	if c.prom != nil {
		c.prom.AlertsFired.WithLabelValues(string(alert.Type)).Inc()
	}

	event := model.AlertFiredEvent{
		AlertID:        alert.ID,
		OwnerID:        alert.OwnerID,
		Symbol:         alert.Symbol,
		Type:           alert.Type,
		Message:        message,
		TriggeredPrice: price,
		TriggeredAt:    now,
	}
	if c.notifier != nil {
		if err := c.notifier.Send(ctx, event); err != nil {
			log.Printf("[alerts] notify %s: %v", alert.ID, err)
			if c.prom != nil {
				c.prom.NotificationsFailed.Inc()
			}
		} else if c.prom != nil {
			c.prom.NotificationsSent.Inc()
		}
	}

	if alert.RepeatOnTrigger {
		clone := alert
		clone.ID = uuid.NewString()
		clone.Status = model.StatusActive
		clone.TriggeredAt = nil
		clone.TriggeredPrice = nil
		clone.CreatedAt = now
		clone.UpdatedAt = now
		if err := c.store.Create(ctx, clone); err != nil {
			log.Printf("[alerts] create repeat alert for %s: %v", alert.ID, err)
		}
	}
}
