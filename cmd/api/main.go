package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/blclinic/appointments/internal/api/router"
	"github.com/blclinic/appointments/internal/appointments"
	"github.com/blclinic/appointments/internal/clinic"
	appconfig "github.com/blclinic/appointments/internal/config"
	"github.com/blclinic/appointments/internal/notify"
	"github.com/blclinic/appointments/internal/observability/metrics"
	"github.com/blclinic/appointments/internal/payments"
	"github.com/blclinic/appointments/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	format := "json"
	if cfg.Env == "development" {
		format = "text"
	}
	logger := logging.NewWithWriter(cfg.LogLevel, format, os.Stdout)
	logger.Info("starting clinic appointments API",
		"env", cfg.Env,
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
	)

	ctx := context.Background()

	// Booking store: durable Postgres or in-process memory.
	var store appointments.Store
	var pool *pgxpool.Pool
	if cfg.UsePostgres() {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = appointments.NewPostgresStore(pool)
	} else {
		logger.Warn("using in-memory booking store; bookings are lost on restart")
		store = appointments.NewMemoryStore()
	}

	// Payment gateway: real Razorpay with credentials, mock without.
	var gateway payments.Gateway
	if cfg.PaymentsConfigured() {
		gateway = payments.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)
	} else {
		logger.Warn("razorpay credentials absent, using mock payment gateway")
		gateway = payments.NewMockGateway(logger)
	}

	// Shift configuration: Redis-backed when available, env default otherwise.
	defaultShift := clinic.ShiftFromConfig(cfg)
	var shifts clinic.ShiftProvider = clinic.NewStaticShift(defaultShift)
	var shiftHandler *clinic.Handler
	if redisClient := buildRedisClient(ctx, cfg, logger); redisClient != nil {
		shiftStore := clinic.NewStore(redisClient, defaultShift)
		shifts = shiftStore
		shiftHandler = clinic.NewHandler(shiftStore, logger)
	}

	bookingMetrics := metrics.NewBookingMetrics(nil)

	var sinks []notify.Sink
	if ws := notify.NewWebhookSink(cfg.WorkflowWebhookURL, cfg.WebhookTimeout, logger); ws != nil {
		sinks = append(sinks, ws)
	}
	if es := notify.NewEmailSink(notify.EmailConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		ToEmail:   cfg.ClinicNotifyEmail,
	}, logger); es != nil {
		sinks = append(sinks, es)
	}

	dispatcher := notify.NewDispatcher(sinks, cfg.WebhookTimeout, 64, logger).
		WithObserver(bookingMetrics.ObserveNotification)
	defer dispatcher.Close()

	service := appointments.NewService(store, gateway, shifts, dispatcher, bookingMetrics, logger)
	handler := appointments.NewHandler(service, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		AppointmentsHandler: handler,
		ShiftHandler:        shiftHandler,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSOrigins,
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildRedisClient returns a verified Redis client or nil when disabled or
// unreachable.
func buildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, shift config falls back to env defaults", "error", err)
		return nil
	}
	return client
}
