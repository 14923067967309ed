package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/floodlight-guardian-view/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/floodlight-guardian-view/internal/adapter/kafka"
	"github.com/couchcryptid/floodlight-guardian-view/internal/adapter/mapbox"
	"github.com/couchcryptid/floodlight-guardian-view/internal/config"
	"github.com/couchcryptid/floodlight-guardian-view/internal/domain"
	"github.com/couchcryptid/floodlight-guardian-view/internal/mapview"
	"github.com/couchcryptid/floodlight-guardian-view/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	layout, err := config.LoadLayout(cfg.LayoutFile)
	if err != nil {
		logger.Error("failed to load map layout", "file", cfg.LayoutFile, "error", err)
		os.Exit(1)
	}
	view, err := layout.Build()
	if err != nil {
		logger.Error("invalid map layout", "file", cfg.LayoutFile, "error", err)
		os.Exit(1)
	}
	comp := view.Composition()
	metrics.HazardZones.Set(float64(len(comp.Circles)))
	metrics.OverlayLayers.Set(float64(len(comp.Overlays)))
	logger.Info("map composed",
		"fingerprint", view.Fingerprint(),
		"base", comp.Base.ID,
		"overlays", view.OverlayIDs(),
		"zones", len(comp.Circles),
		"overlapping_zones", len(view.Overlaps()),
	)

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create geocode cache", "error", err)
			os.Exit(1)
		}
		geocoder = cached
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	sessions := mapview.NewStateTracker(view, cfg.SessionCapacity, cfg.SessionTTL)
	sessions.OnToggle(httpadapter.ToggleRecorder(metrics, logger))

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		sessions.OnToggle(writer.HandleLayerEvent)
		logger.Info("layer event publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaLayerEventsTopic)
	}

	renderer := httpadapter.NewRenderer(view, layout.Page, geocoder != nil)
	// A failed first render means the page template cannot serve this layout.
	if err := renderer.Render(io.Discard, ""); err != nil {
		logger.Error("page render failed", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Dependencies{
		View:     view,
		Sessions: sessions,
		Renderer: renderer,
		Geocoder: geocoder,
		Metrics:  metrics,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
