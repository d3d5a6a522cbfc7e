// Package main provides the API router setup.
package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/politiktok/research-engine/cmd/research-api/handlers"
	"github.com/politiktok/research-engine/cmd/research-api/middleware"
	"github.com/politiktok/research-engine/internal/cache"
	"github.com/politiktok/research-engine/internal/config"
	"github.com/politiktok/research-engine/internal/dataset"
	"github.com/politiktok/research-engine/internal/observability"
	"github.com/politiktok/research-engine/internal/queryengine"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	// Service dependencies
	cacheClient := newCacheClient(logger, cfg)

	loader := dataset.NewLoader(logger)
	store := dataset.NewStore(loader.LoadAll(cfg.Data))

	engine := queryengine.NewEngine(store, cacheClient, cfg.Query, cfg.Cache.TTL, logger)

	queryHandler := handlers.NewQueryHandler(logger, engine)
	dataHandler := handlers.NewDataHandler(logger, store, engine)
	adminHandler := handlers.NewAdminHandler(logger, loader, store, engine, cfg.Data)

	// Health checks (outside the versioned API)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"research-engine"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if store.Snapshot().TotalRows() == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"no data loaded"}`))
			return
		}
		fmt.Fprintf(w, `{"status":"ready","loaded_at":%q}`, store.LoadedAt().Format("2006-01-02T15:04:05Z07:00"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/query", queryHandler.Query)

		r.Route("/data", func(r chi.Router) {
			r.Get("/summary", dataHandler.Summary)
			r.Get("/creators", dataHandler.Creators)
			r.Get("/videos", dataHandler.Videos)
			r.Get("/words", dataHandler.Words)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/reload", adminHandler.Reload)
		r.Post("/cache/invalidate", adminHandler.InvalidateCache)
	})

	return r
}

// newCacheClient builds the configured cache backend, degrading to the
// in-memory client when Redis is unreachable.
func newCacheClient(logger *observability.Logger, cfg *config.Config) cache.Client {
	if cfg.Cache.Driver == "redis" {
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err == nil {
			return client
		}
		logger.Warn().Err(err).Msg("redis unavailable, falling back to memory cache")
	}
	return cache.NewMemoryClient(cfg.Cache.MaxEntries)
}
