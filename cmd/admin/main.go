package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/storefront-admin/internal/auth"
	"github.com/joao-fontenele/storefront-admin/internal/cache"
	"github.com/joao-fontenele/storefront-admin/internal/config"
	"github.com/joao-fontenele/storefront-admin/internal/customers"
	"github.com/joao-fontenele/storefront-admin/internal/dashboard"
	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/messaging"
	"github.com/joao-fontenele/storefront-admin/internal/orders"
	"github.com/joao-fontenele/storefront-admin/internal/products"
	"github.com/joao-fontenele/storefront-admin/internal/reports"
	"github.com/joao-fontenele/storefront-admin/internal/telemetry"
	"github.com/joao-fontenele/storefront-admin/internal/users"
)

const serviceName = "storefront-admin"

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, foundEnv, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if !foundEnv {
		logger.Info(".env file not found, using process environment")
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, cfg.ServiceVersion, cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

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
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, caching in process")
	}

	var publisher orders.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	orderRepo := orders.NewOrderRepository(store, logger)
	productRepo := products.NewProductRepository(store)
	userRepo := users.NewUserRepository(store)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	requireAdmin := auth.NewMiddleware(tokens, snapshots, logger).RequireAdmin

	authHandler := auth.NewHandler(userRepo, tokens, snapshots, logger)
	orderHandler := orders.NewHandler(orderRepo, publisher, snapshots, loc, logger)
	productHandler := products.NewHandler(productRepo, snapshots, logger)
	customerHandler := customers.NewHandler(userRepo, orderRepo, loc, logger)
	dashboardHandler := dashboard.NewHandler(
		dashboard.NewService(productRepo, orderRepo, userRepo, snapshots, cfg.CacheTTL, cfg.RecentOrdersLimit, loc, logger),
		logger,
	)
	reportHandler := reports.NewHandler(reports.NewService(orderRepo, snapshots, cfg.CacheTTL, loc, logger), logger)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return telemetry.WithHTTPRoute(requireAdmin(h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", telemetry.WithHTTPRoute(authHandler.HandleLogin))
	mux.HandleFunc("GET /auth/me", admin(authHandler.HandleMe))
	mux.HandleFunc("POST /auth/logout", admin(authHandler.HandleLogout))
	mux.HandleFunc("GET /dashboard", admin(dashboardHandler.HandleSummary))
	mux.HandleFunc("GET /products", admin(productHandler.HandleList))
	mux.HandleFunc("DELETE /products/{id}", admin(productHandler.HandleDelete))
	mux.HandleFunc("GET /orders", admin(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", admin(orderHandler.HandleGet))
	mux.HandleFunc("POST /orders/{id}/complete", admin(orderHandler.HandleComplete))
	mux.HandleFunc("GET /customers", admin(customerHandler.HandleList))
	mux.HandleFunc("GET /reports/sales", admin(reportHandler.HandleSales))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting admin service", "port", cfg.Port, "docstore", cfg.DocstoreDriver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
