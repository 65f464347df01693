package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/lumina-storefront/docs"
	"github.com/tair/lumina-storefront/internal/assistant"
	"github.com/tair/lumina-storefront/internal/catalog"
	catalogHTTP "github.com/tair/lumina-storefront/internal/catalog/delivery/http"
	"github.com/tair/lumina-storefront/internal/config"
	"github.com/tair/lumina-storefront/internal/events"
	"github.com/tair/lumina-storefront/internal/platform/health"
	"github.com/tair/lumina-storefront/internal/platform/middleware"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/internal/session"
	"github.com/tair/lumina-storefront/internal/storefront"
	storefrontHTTP "github.com/tair/lumina-storefront/internal/storefront/delivery/http"
	"github.com/tair/lumina-storefront/pkg/auth"
	"github.com/tair/lumina-storefront/pkg/logger"
	"github.com/tair/lumina-storefront/pkg/tracing"
)

const serviceVersion = "1.0.0"

// handlers are the HTTP handlers assembled by initializeHandlers.
type handlers struct {
	Catalog    *catalogHTTP.CatalogHandler
	Storefront *storefrontHTTP.StorefrontHandler
}

func main() {
	cfg := config.LoadStorefront()

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting storefront service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracer
	tp, err := tracing.InitTracer(cfg.ServiceName, serviceVersion, cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	checker := health.NewChecker(cfg.ServiceName, 3*time.Second)

	// Catalog
	repo, dbProbe, closeCatalog, err := catalog.OpenRepository(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open catalog")
	}
	defer closeCatalog()
	if dbProbe != nil {
		checker.Add("catalog_db", dbProbe)
	}

	// Redis backs sessions and the HTTP middleware
	redisClient := connectRedis(ctx, cfg)
	var store session.Store = session.NewMemoryStore()
	if redisClient != nil {
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient, "lumina", cfg.SessionIdleTTL)
		checker.Add("redis", health.RedisProbe(redisClient))
	}

	// Cart events
	popularity := events.NewPopularity()
	publisher, closeEvents := startEvents(ctx, cfg, popularity)
	defer closeEvents()

	// Styling assistant
	products, err := repo.FindAll(ctx)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load catalog for the assistant")
	}
	completion := assistant.NewGenerateContentClient(cfg.CompletionURL, cfg.CompletionModel, cfg.CompletionAPIKey)
	stylist, err := assistant.NewStylist(completion, products)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize stylist")
	}
	checker.Add("completion", health.BreakerProbe(completion.Breaker()))
	checker.Add("auth_service", health.HTTPProbe(http.DefaultClient, cfg.AuthServiceURL+"/health"))

	// Session states
	authClient := session.NewHTTPAuthClient(cfg.AuthServiceURL).
		WithTokenVerifier(auth.NewTokenManager(cfg.JWTSecret, 0))
	registry := storefront.NewRegistry(storefront.Deps{
		Catalog:   repo,
		Auth:      authClient,
		Store:     store,
		Publisher: publisher,
		Responder: stylist,
		Debounce:  cfg.BrowseDebounce,
	}, cfg.SessionIdleTTL, prometheus.DefaultRegisterer)
	defer registry.Close()
	go registry.Run(ctx, time.Minute)

	metrics := web.NewMetrics(prometheus.DefaultRegisterer, "storefront")
	h, err := initializeHandlers(repo, registry, popularity, stylist, metrics)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handlers")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           newRouter(cfg, h, checker, redisClient),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}

func newRouter(cfg *config.Storefront, h *handlers, checker *health.Checker, redisClient *redis.Client) http.Handler {
	router := mux.NewRouter()

	// Catalog reads are identical for every session and can be cached
	cacheConfig := middleware.DefaultCacheConfig()
	cacheConfig.DefaultTTL = cfg.CacheTTL
	catalogRoutes := router.NewRoute().Subrouter()
	catalogRoutes.Use(middleware.Cache(redisClient, cacheConfig))
	h.Catalog.RegisterRoutes(catalogRoutes)

	h.Storefront.RegisterRoutes(router)

	router.HandleFunc("/health", checker.Handler()).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())
	storefrontHTTP.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var handler http.Handler = router
	handler = middleware.NewRateLimiter(redisClient, cfg.RateLimit, time.Minute).Middleware(handler)
	handler = web.LoggingMiddleware(handler)
	handler = middleware.Tracing(cfg.ServiceName)(handler)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.SessionHeader, "X-Trace-Id", "X-Cache", "X-RateLimit-Remaining"},
		AllowCredentials: true,
	})
	return c.Handler(handler)
}

// connectRedis returns nil when Redis is unreachable; sessions then stay in
// memory and rate limiting and caching are disabled.
func connectRedis(ctx context.Context, cfg *config.Storefront) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.RedisAddr).
			Msg("Failed to connect to Redis - sessions stay in memory, rate limiting and caching disabled")
		_ = client.Close()
		return nil
	}

	logger.Logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("Connected to Redis")
	return client
}

// startEvents publishes cart events to Kafka and feeds the popularity tally
// from the consumer group. Without brokers the tally is fed in-process.
func startEvents(ctx context.Context, cfg *config.Storefront, popularity *events.Popularity) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Logger.Info().Msg("No Kafka brokers configured - cart events stay in-process")
		return popularity.Local(), func() {}
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka unavailable - cart events stay in-process")
		return popularity.Local(), func() {}
	}

	consumer, err := events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable - popularity will not update")
		return publisher, func() { _ = publisher.Close() }
	}
	popularity.Register(consumer)
	consumer.Start(ctx)

	return publisher, func() {
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
		if err := publisher.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka producer")
		}
	}
}
