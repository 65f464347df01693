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
	"github.com/rs/cors"

	"github.com/tair/lumina-storefront/internal/config"
	"github.com/tair/lumina-storefront/internal/identity"
	"github.com/tair/lumina-storefront/internal/platform/health"
	"github.com/tair/lumina-storefront/internal/platform/middleware"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/pkg/auth"
	"github.com/tair/lumina-storefront/pkg/logger"
	"github.com/tair/lumina-storefront/pkg/tracing"
)

const serviceVersion = "1.0.0"

func main() {
	cfg := config.LoadAuth()

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("user_store", cfg.UserStore).
		Msg("Starting auth service")

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

	repo, closeRepo, err := identity.OpenRepository(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open user store")
	}
	defer closeRepo()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	handler, err := identity.InitializeHTTPHandler(repo, tokens, web.NewMetrics(prometheus.DefaultRegisterer, "auth"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	checker := health.NewChecker(cfg.ServiceName, 3*time.Second).
		Add("user_store", func(ctx context.Context) error {
			_, err := repo.Count(ctx)
			return err
		})

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.HandleFunc("/health", checker.Handler()).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           c.Handler(middleware.Tracing(cfg.ServiceName)(web.LoggingMiddleware(router))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
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
