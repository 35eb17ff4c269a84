package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bikeflow.bluebikes.org/internal/app"
	"bikeflow.bluebikes.org/internal/bikeshare"
	"bikeflow.bluebikes.org/internal/cache"
	"bikeflow.bluebikes.org/internal/live"
	"bikeflow.bluebikes.org/internal/logging"
	"bikeflow.bluebikes.org/internal/restapi"
	"bikeflow.bluebikes.org/internal/webui"
)

// newTrafficCache prefers Redis when configured and reachable.
func newTrafficCache(ctx context.Context, cfg cacheConfig, logger *slog.Logger) cache.TrafficCache {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(cache.DefaultMemoryEntries)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
	if err := redisCache.Ping(ctx); err != nil {
		logging.LogError(logger, "redis unavailable, using in-memory traffic cache", err,
			slog.String("addr", cfg.RedisAddr))
		logging.CloseLogged(logger, "redis_cache", redisCache)
		return cache.NewMemoryCache(cache.DefaultMemoryEntries)
	}
	logger.Info("using redis traffic cache", slog.String("addr", cfg.RedisAddr))
	return redisCache
}

// buildApplication loads the datasets and assembles the shared dependencies.
func buildApplication(ctx context.Context, cfg config, logger *slog.Logger) (*app.Application, error) {
	trafficCache := newTrafficCache(ctx, cfg.Cache, logger)

	manager, err := bikeshare.InitManager(ctx, cfg.Bikeshare,
		bikeshare.WithCache(trafficCache),
		bikeshare.WithLogger(logger))
	if err != nil {
		logging.CloseLogged(logger, "traffic_cache", trafficCache)
		return nil, fmt.Errorf("failed to initialize bikeshare manager: %w", err)
	}

	return &app.Application{
		Config:           cfg.App,
		BikeshareConfig:  cfg.Bikeshare,
		Logger:           logger,
		BikeshareManager: manager,
		TrafficCache:     trafficCache,
	}, nil
}

// server is the HTTP surface plus the background work it owns.
type server struct {
	handler http.Handler
	api     *restapi.RestAPI
	hub     *live.Hub
}

func newServer(application *app.Application) *server {
	router := httprouter.New()

	api := restapi.NewRestAPI(application)
	api.SetRoutes(router)

	hub := live.NewHub(application)
	router.Handler(http.MethodGet, "/ws/markers", hub)

	webui.NewWebUI(application).SetWebUIRoutes(router)

	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return &server{
		handler: api.Handler(router),
		api:     api,
		hub:     hub,
	}
}

// close stops the live sessions and the rate limiter.
func (s *server) close() {
	s.hub.Shutdown()
	s.api.Close()
}

func shutdownApplication(application *app.Application) {
	application.BikeshareManager.Shutdown()
	if application.TrafficCache != nil {
		logging.CloseLogged(application.Logger, "traffic_cache", application.TrafficCache)
	}
}
