// Package monitor keeps the ranked hazard view current as the user's
// location changes and pushes each new view to stream subscribers.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-travel-safety/internal/catalog"
	"github.com/mr1hm/go-travel-safety/internal/location"
	"github.com/mr1hm/go-travel-safety/internal/models"
	"github.com/mr1hm/go-travel-safety/internal/observability"
	"github.com/mr1hm/go-travel-safety/internal/ranking"
	"github.com/mr1hm/go-travel-safety/internal/stream"
	"github.com/mr1hm/go-travel-safety/internal/worker"
)

const (
	SourceRefresh = "refresh"
	SourceReport  = "report"
)

type Config struct {
	RefreshInterval time.Duration
	Workers         int
	BufferSize      int
}

type Monitor struct {
	cfg     Config
	catalog *catalog.Catalog
	ranker  *ranking.Ranker
	tracker *location.Tracker
	hub     *stream.Hub
	metrics *observability.Metrics
	clock   clockwork.Clock

	pool *worker.Pool[location.Fix]
	wg   sync.WaitGroup
}

func New(cfg Config, cat *catalog.Catalog, ranker *ranking.Ranker, tracker *location.Tracker, hub *stream.Hub, metrics *observability.Metrics, clock clockwork.Clock) *Monitor {
	m := &Monitor{
		cfg:     cfg,
		catalog: cat,
		ranker:  ranker,
		tracker: tracker,
		hub:     hub,
		metrics: metrics,
		clock:   clock,
	}
	m.pool = worker.NewPool[location.Fix]("location-reports", cfg.Workers, cfg.BufferSize, m.processReport)
	return m
}

func (m *Monitor) Start(ctx context.Context) {
	m.pool.Start(ctx)

	m.wg.Add(1)
	go m.runRefresher(ctx)
}

func (m *Monitor) runRefresher(ctx context.Context) {
	defer m.wg.Done()
	slog.Info("starting location refresher", "provider", m.tracker.ProviderName(), "interval", m.cfg.RefreshInterval)

	m.refresh(ctx)

	ticker := m.clock.NewTicker(m.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("location refresher shutting down")
			return
		case <-ticker.Chan():
			m.refresh(ctx)
		}
	}
}

func (m *Monitor) refresh(ctx context.Context) {
	loc, err := m.tracker.Refresh(ctx)
	if err != nil {
		slog.Debug("refresh produced no new fix", "error", err)
		return
	}
	m.publish(*loc, SourceRefresh)
}

// Report queues a client-supplied fix. The view is re-ranked asynchronously;
// a fix overtaken by a later report is dropped.
func (m *Monitor) Report(ctx context.Context, loc models.UserLocation) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	return m.pool.Submit(ctx, m.tracker.Stamp(loc))
}

func (m *Monitor) processReport(ctx context.Context, f location.Fix) error {
	err := m.tracker.Update(f)
	if errors.Is(err, location.ErrStaleFix) {
		slog.Debug("dropping superseded location report", "seq", f.Seq)
		return nil
	}
	if err != nil {
		return err
	}
	m.publish(f.Location, SourceReport)
	return nil
}

// View ranks the catalog against loc and records the ranking under source.
func (m *Monitor) View(loc *models.UserLocation, source string) ranking.View {
	start := time.Now()
	v := m.ranker.Rank(loc, m.catalog.Hazards())
	m.metrics.ObserveRanking(source, start)
	return v
}

// CurrentView ranks against the tracker's last fix; the view is empty without one.
func (m *Monitor) CurrentView(source string) (ranking.View, *models.UserLocation) {
	loc := m.tracker.Current()
	return m.View(loc, source), loc
}

func (m *Monitor) publish(loc models.UserLocation, source string) {
	v := m.View(&loc, source)

	m.hub.Publish(stream.Update{
		Location: loc,
		View:     v,
		Source:   source,
		RankedAt: m.clock.Now(),
	})

	if len(v.CriticalNear) > 0 {
		slog.Warn("critical hazard nearby",
			"hazard", v.CriticalNear[0].ID,
			"distance", v.CriticalNear[0].DistanceText(),
			"count", len(v.CriticalNear),
		)
	}
	slog.Debug("published ranked view", "source", source, "hazards", len(v.All), "high_near", len(v.HighNear))
}

func (m *Monitor) Stop() {
	m.wg.Wait()
	m.pool.Stop()
	slog.Info("monitor stopped")
}

func (m *Monitor) LocationState() location.State {
	return m.tracker.State()
}
