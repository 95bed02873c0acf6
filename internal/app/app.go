package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhinimbalkar96-spec/blak-website/internal/cart"
	"github.com/abhinimbalkar96-spec/blak-website/internal/catalog"
	"github.com/abhinimbalkar96-spec/blak-website/internal/checkout"
	"github.com/abhinimbalkar96-spec/blak-website/internal/config"
	"github.com/abhinimbalkar96-spec/blak-website/internal/event"
	handler "github.com/abhinimbalkar96-spec/blak-website/internal/handler/http"
	redisrepo "github.com/abhinimbalkar96-spec/blak-website/internal/repository/redis"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/health"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/httpclient"
	pkgkafka "github.com/abhinimbalkar96-spec/blak-website/pkg/kafka"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	store          *cart.Store
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
		SampleRate:     cfg.OTEL.SampleRate,
		Enabled:        cfg.OTEL.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Redis backs the cart mirror.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.Redis.Addr),
		slog.Int("db", cfg.Redis.DB),
	)

	// Kafka producer for storefront events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.Kafka.Brokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.Kafka.Brokers))

	// HTTP clients for the product and order services.
	plain := httpclient.New(httpclient.DefaultConfig())
	orders := httpclient.NewCircuitBreakerClient(plain,
		httpclient.DefaultCircuitBreakerConfig("order-service"), logger)

	// Build the dependency graph.
	mirror := redisrepo.NewCartMirror(rdb, cfg.Cart.MirrorTTL, logger)
	store := cart.NewStore(mirror, logger)

	catalogClient := catalog.NewClient(cfg.Services.ProductServiceURL, plain)
	catalogCache := catalog.NewCache(catalogClient, cfg.Catalog.CacheTTL, logger)

	eventProducer := event.NewProducer(producer, logger)
	store.Subscribe(eventProducer.CartUpdated)

	checkoutService := checkout.NewService(store, catalogCache, orders,
		cfg.Services.OrderServiceURL, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Cart:           handler.NewCartHandler(store, catalogCache, logger),
		Checkout:       handler.NewCheckoutHandler(checkoutService, logger),
		Products:       handler.NewProductHandler(catalogClient, catalogCache, logger),
		Health:         healthHandler,
		Logger:         logger,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		store:          store,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Let in-flight cart mirror saves land before the Redis client closes.
	a.store.Flush()

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Flush any batched spans.
	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
