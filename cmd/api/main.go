package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tradecove/catalog-backend/api/routes"
	"github.com/tradecove/catalog-backend/internal/analytics"
	"github.com/tradecove/catalog-backend/internal/cache"
	categorysvc "github.com/tradecove/catalog-backend/internal/categories"
	product "github.com/tradecove/catalog-backend/internal/products"
	searchsvc "github.com/tradecove/catalog-backend/internal/search"
	suppliersvc "github.com/tradecove/catalog-backend/internal/suppliers"
	"github.com/tradecove/catalog-backend/pkg/config"
	"github.com/tradecove/catalog-backend/pkg/db"
	"github.com/tradecove/catalog-backend/pkg/embedding"
	"github.com/tradecove/catalog-backend/pkg/logger"
	"github.com/tradecove/catalog-backend/pkg/metrics"
	"github.com/tradecove/catalog-backend/pkg/migrate"
	"github.com/tradecove/catalog-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	searchMetrics := metrics.NewSearchMetrics(registry)

	cacheService, err := cache.NewService(redisClient, logg, cfg.Cache, searchMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cache service", err)
		os.Exit(1)
	}

	productRepo := product.NewRepository(dbClient.DB())
	analyticsRepo := analytics.NewRepository(dbClient.DB())
	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		logg.Error(context.Background(), "failed to create embedding client", err)
		os.Exit(1)
	}

	searchService, err := searchsvc.NewService(
		productRepo,
		cacheService,
		embedder,
		analyticsRepo,
		logg,
		cfg.Search.Weights(),
		searchMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create search service", err)
		os.Exit(1)
	}

	categoryService, err := categorysvc.NewService(categorysvc.NewRepository(dbClient.DB()), cacheService)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	supplierService, err := suppliersvc.NewService(suppliersvc.NewRepository(dbClient.DB()), cacheService)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			searchService,
			categoryService,
			supplierService,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
