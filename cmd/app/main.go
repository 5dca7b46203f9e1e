package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"appointments-service/internal/calendar"
	"appointments-service/internal/config"
	"appointments-service/internal/http-server/middleware/ratelimit"
	"appointments-service/internal/http-server/router"
	"appointments-service/internal/lock"
	"appointments-service/internal/metrics"
	svc "appointments-service/internal/service"
	"appointments-service/internal/storage/postgres"
	slogpretty "appointments-service/pkg/handlers/slogPretty"
	"appointments-service/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err := storage.Migrate(); err != nil {
		log.Error("Failed to apply migrations", sl.Err(err))
		os.Exit(1)
	}

	locker, closeLocker := setupLocker(log, cfg.RedisAddr)

	syncer := setupCalendar(log, cfg.Calendar)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service := svc.NewService(storage, locker,
		svc.WithLogger(log),
		svc.WithCalendar(syncer),
		svc.WithMetrics(metrics.NewSchedulingMetrics(registry)),
		svc.WithLocation(cfg.Calendar.Location()),
		svc.WithLockTTL(cfg.Booking.LockTTL),
		svc.WithLeadTime(cfg.Booking.EnforceLeadTime),
		svc.WithBilling(cfg.Billing.SingleCreditPrice, cfg.Billing.BundleCredits),
	)

	if cfg.Billing.StripeWebhookSecret == "" {
		log.Warn("Stripe webhook signature verification is disabled")
	}

	handler := router.New(log, service, router.Options{
		JWTSecret:     cfg.Auth.JWTSecret,
		WebhookSecret: cfg.Billing.StripeWebhookSecret,
		Limiter:       ratelimit.New(float64(cfg.Booking.RatePerMinute), cfg.Booking.RateBurst),
		Metrics:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + cfg.Calendar.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := storage.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := closeLocker(); err != nil {
		log.Error("Failed to close locker", sl.Err(err))
	} else {
		log.Info("Locker closed")
	}

	log.Info("Shutdown finished, server stopped")

}

// setupLocker connects to Redis. Without an address, or when Redis is down,
// bookings rely on the storage constraint alone.
func setupLocker(log *slog.Logger, addr string) (lock.Locker, func() error) {
	if addr == "" {
		log.Warn("redis_addr is empty, slot locking disabled")
		return lock.Noop{}, func() error { return nil }
	}

	redisLock, err := lock.NewRedisLock(addr)
	if err != nil {
		log.Warn("Failed to init redis lock, slot locking disabled", sl.Err(err))
		return lock.Noop{}, func() error { return nil }
	}

	return redisLock, redisLock.Close
}

func setupCalendar(log *slog.Logger, cfg config.Calendar) calendar.Syncer {
	if cfg.CalendarID == "" {
		log.Warn("calendar_id is empty, calendar sync disabled")
		return calendar.Disabled{}
	}

	google, err := calendar.NewGoogle(context.Background(), calendar.Config{
		CalendarID:      cfg.CalendarID,
		TimeZone:        cfg.TimeZone,
		Timeout:         cfg.Timeout,
		CredentialsFile: cfg.CredentialsFile,
		CredentialsJSON: cfg.CredentialsJSON,
	})
	if err != nil {
		log.Error("Failed to init google calendar, calendar sync disabled", sl.Err(err))
		return calendar.Disabled{}
	}

	return google
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
