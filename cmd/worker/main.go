package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joao-fontenele/storefront-admin/internal/cache"
	"github.com/joao-fontenele/storefront-admin/internal/config"
	"github.com/joao-fontenele/storefront-admin/internal/dashboard"
	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/messaging"
	"github.com/joao-fontenele/storefront-admin/internal/orders"
	"github.com/joao-fontenele/storefront-admin/internal/products"
	"github.com/joao-fontenele/storefront-admin/internal/reports"
	"github.com/joao-fontenele/storefront-admin/internal/telemetry"
	"github.com/joao-fontenele/storefront-admin/internal/users"
	"github.com/joao-fontenele/storefront-admin/internal/worker"
)

const serviceName = "storefront-admin-worker"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, foundEnv, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if !foundEnv {
		logger.Info(".env file not found, using process environment")
	}
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, cfg.ServiceVersion, cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	store, closeStore, err := docstore.Open(ctx, cfg.DocstoreDriver, cfg.PostgresURL, cfg.FetchRetries)
	if err != nil {
		logger.Error("failed to open document store", "error", err, "driver", cfg.DocstoreDriver)
		os.Exit(1)
	}
	defer func() { _ = closeStore() }()

	snapshots, closeCache, err := cache.Open(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closeCache() }()

	orderRepo := orders.NewOrderRepository(store, logger)
	summaries := dashboard.NewService(products.NewProductRepository(store), orderRepo, users.NewUserRepository(store),
		snapshots, cfg.CacheTTL, cfg.RecentOrdersLimit, loc, logger)
	sales := reports.NewService(orderRepo, snapshots, cfg.CacheTTL, loc, logger)
	refresher := worker.NewCacheRefresher(snapshots, summaries, sales, logger)

	consumer := messaging.NewConsumer(cfg.KafkaBrokers, cfg.OrderEventsTopic, "dashboard-cache-refresher", logger)
	defer func() { _ = consumer.Close() }()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting cache refresher", "brokers", cfg.KafkaBrokers, "topic", cfg.OrderEventsTopic)

	if err := consumer.Consume(ctx, refresher.Handle); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
