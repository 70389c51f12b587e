package main

import (
	"context"
	"time"

	"certificate-service-go/internal/api"
	"certificate-service-go/internal/config"
	"certificate-service-go/internal/domain/render"
	"certificate-service-go/internal/pkg/cache"
	"certificate-service-go/internal/pkg/gotenberg"
	"certificate-service-go/internal/pkg/logger"
	"certificate-service-go/internal/pkg/statistics"
	"certificate-service-go/internal/pkg/tracing"

	"go.uber.org/zap"
)

// version задается при сборке через -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Инициализируем логгер
	if err := logger.Init(cfg.LogLevel, "json"); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Log.Sync()

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(ctx, tracing.Config{
			ServiceName:    cfg.Tracing.ServiceName,
			ServiceVersion: version,
			Environment:    cfg.Tracing.Environment,
			CollectorURL:   cfg.Tracing.Endpoint,
			SamplingRate:   cfg.Tracing.SamplingRate,
		})
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Error("Failed to shutdown tracer", zap.Error(err))
			}
		}()
		logger.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	// Хранилище статистики необязательно: без него статистика живет в памяти
	var store statistics.Store
	if cfg.StatsDB.Enabled() {
		pg, err := statistics.NewPostgresStore(ctx, cfg.StatsDB.DSN())
		if err != nil {
			logger.Error("Statistics storage unavailable, keeping statistics in memory", zap.Error(err))
		} else {
			store = pg
			defer pg.Close()
		}
	}
	stats := statistics.New(store)

	client := gotenberg.NewClientWithRetryAndCircuitBreaker(cfg.Gotenberg, cfg.CircuitBreaker)
	client.SetHandler(stats)
	defer client.Close()
	logger.Info("Gotenberg client created", zap.String("url", cfg.Gotenberg.URL))

	assets, err := render.LoadAssets(cfg.Render.AssetsDir)
	if err != nil {
		logger.Fatal("Failed to load certificate assets", zap.Error(err))
	}

	renderCache := cache.NewCache(cfg.Render.CacheTTL)
	defer renderCache.Close()

	service := render.NewService(client, render.Options{
		Scale:  cfg.Render.Scale,
		Assets: assets,
		Cache:  renderCache,
		Stats:  stats,
	})

	handlers := api.NewHandlers(service, stats, client)
	server := api.NewServer(handlers, cfg.Server, stats)
	server.SetupRoutes()
	logger.Info("Server configured and routes set up", zap.Int("assets", len(assets)))

	if err := server.Start(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
