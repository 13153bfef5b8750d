package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-notify/internal/config"
	handlerhttp "media-notify/internal/handler/http"
	"media-notify/internal/infra/metadata"
	"media-notify/internal/infra/notifier"
	"media-notify/internal/observability/logging"
	"media-notify/internal/resilience/retry"
	"media-notify/internal/usecase/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metadata collaborators
	tmdb := metadata.NewTMDBClient(cfg.Metadata.TMDBBaseURL, cfg.Metadata.TMDBAPIKey, cfg.Metadata.Timeout)
	douban := metadata.NewDoubanClient(cfg.Metadata.DoubanBaseURL, cfg.Metadata.Timeout)
	images := metadata.NewScraperClient(cfg.Metadata.ScraperBaseURL, cfg.Metadata.Timeout)
	users := metadata.NewUserClient(cfg.Metadata.UserBaseURL, cfg.Metadata.Timeout)

	// Discord delivery channel
	discordChannel, err := buildDiscordChannel(cfg.Discord)
	if err != nil {
		logger.Error("failed to initialize discord channel", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("discord channel initialized",
		slog.Bool("enabled", cfg.Discord.Enabled),
		slog.Int("retry_attempts", cfg.Discord.MaxAttempts),
		slog.Duration("retry_delay", cfg.Discord.RetryDelay))

	router := notify.NewRouter(tmdb, douban, images, users, []notify.Channel{discordChannel})

	// Event intake server
	intakeServer := &http.Server{
		Addr:         cfg.Intake.Addr,
		Handler:      handlerhttp.NewMux(router),
		ReadTimeout:  cfg.Intake.ReadTimeout,
		WriteTimeout: cfg.Intake.WriteTimeout,
		IdleTimeout:  cfg.Intake.IdleTimeout,
	}
	go func() {
		logger.Info("event intake server started", slog.String("addr", cfg.Intake.Addr))
		if err := intakeServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("intake server failed", slog.Any("error", err))
			stop()
		}
	}()

	metricsServer := startMetricsServer(logger, cfg.Metrics.Addr)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := intakeServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("intake server shutdown failed", slog.Any("error", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown failed", slog.Any("error", err))
	}
	logger.Info("shutdown complete")
}

// buildDiscordChannel wires the webhook transport behind the channel
// abstraction. A disabled channel still satisfies the interface via the
// no-op transport.
func buildDiscordChannel(cfg config.DiscordConfig) (notify.Channel, error) {
	if !cfg.Enabled {
		return notify.NewDiscordChannel(nil, false), nil
	}

	n, err := notifier.NewDiscordNotifier(notifier.DiscordConfig{
		Enabled:    true,
		WebhookURL: cfg.WebhookURL,
		ProxyURL:   cfg.ProxyURL,
		Timeout:    cfg.Timeout,
		Retry: retry.Config{
			MaxAttempts: cfg.MaxAttempts,
			Delay:       cfg.RetryDelay,
			Classify:    retry.RetryAll,
		},
		RatePerSecond: cfg.RatePerSecond,
		RateBurst:     cfg.RateBurst,
	})
	if err != nil {
		return nil, err
	}
	return notify.NewDiscordChannel(n, true), nil
}
