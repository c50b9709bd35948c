package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/soustitre/soustitre/internal/api"
	"github.com/soustitre/soustitre/internal/config"
	"github.com/soustitre/soustitre/internal/metrics"
	"github.com/soustitre/soustitre/internal/provider"
	"github.com/soustitre/soustitre/internal/services"
)

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Str("default_language", cfg.DefaultLanguage).
		Bool("development", cfg.Development).
		Msg("Application started with configuration")

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: environmentName(cfg),
		}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// A missing or stale cookie export is not fatal. The provider runs
	// unauthenticated and the health endpoint reports the degraded state.
	bundle, err := provider.LoadCookieBundle(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("Cookie export not usable, running unauthenticated")
		bundle = nil
	} else if bundle != nil {
		logger.Info().Str("source", bundle.Source).Int("cookies", len(bundle.Cookies)).Msg("Cookie export loaded")
	}

	captionProvider := provider.NewYouTubeProvider(cfg, bundle)
	service := services.NewSubtitleService(captionProvider)

	health := api.HealthStatus{
		SubtitlesAvailable: true,
		CookiesLoaded:      bundle != nil,
	}
	e := api.NewServer(service, health, cfg)

	// Start Prometheus metrics HTTP server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		}
	}()

	logger.Info().Str("address", address).Msg("Starting HTTP server")
	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("Failed to serve HTTP")
	}

	logger.Info().Msg("Server stopped gracefully")
}

func environmentName(cfg *config.Config) string {
	if cfg.Development {
		return "development"
	}
	return "production"
}
