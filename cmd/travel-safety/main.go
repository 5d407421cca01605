package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mr1hm/go-travel-safety/internal/api"
	"github.com/mr1hm/go-travel-safety/internal/catalog"
	"github.com/mr1hm/go-travel-safety/internal/config"
	"github.com/mr1hm/go-travel-safety/internal/location"
	"github.com/mr1hm/go-travel-safety/internal/logging"
	"github.com/mr1hm/go-travel-safety/internal/monitor"
	"github.com/mr1hm/go-travel-safety/internal/observability"
	"github.com/mr1hm/go-travel-safety/internal/ranking"
	"github.com/mr1hm/go-travel-safety/internal/repository"
	"github.com/mr1hm/go-travel-safety/internal/stream"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, err := loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		logging.Fatalf("Failed to load catalog: %v", err)
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	metrics.CatalogHazards.Set(float64(len(cat.Hazards())))
	slog.Info("catalog loaded", "hazards", len(cat.Hazards()), "countries", len(cat.Countries()))

	clock := clockwork.NewRealClock()
	provider, err := location.NewProvider(location.ProviderConfig{
		Type:           location.ProviderType(cfg.Location.Provider),
		Latitude:       cfg.Location.Latitude,
		Longitude:      cfg.Location.Longitude,
		AccuracyMeters: cfg.Location.AccuracyMeters,
		Clock:          clock,
	})
	if err != nil {
		logging.Fatalf("Failed to create location provider: %v", err)
	}
	tracker := location.NewTracker(provider, clock, cfg.Location.Timeout, metrics)

	thresholds := ranking.Thresholds{
		CriticalNearMeters: cfg.Ranking.CriticalNearMeters,
		HighNearMeters:     cfg.Ranking.HighNearMeters,
	}
	ranker := ranking.NewRanker(thresholds)

	hub := stream.NewHub(stream.DefaultBuffer, func(n int) {
		metrics.StreamSubscribers.Set(float64(n))
	})

	mon := monitor.New(monitor.Config{
		RefreshInterval: cfg.Location.RefreshInterval,
		Workers:         cfg.Worker.Count,
		BufferSize:      cfg.Worker.BufferSize,
	}, cat, ranker, tracker, hub, metrics, clock)
	mon.Start(ctx)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // must be false with wildcard origins
	}))
	// registered ahead of the limiter so scrapes are never throttled
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(cat, mon, hub, thresholds, cfg.Ranking.HighRiskPercent)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mon.Stop()
	hub.Close() // ends open SSE streams

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.DBPath == "" {
		return catalog.LoadEmbedded()
	}

	db, err := repository.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	slog.Info("loading hazards from sqlite", "path", cfg.DBPath)
	return catalog.LoadFrom(ctx, db)
}
