package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/cavespring/plumbing-leads/cmd/mainconfig"
	"github.com/cavespring/plumbing-leads/internal/api/router"
	"github.com/cavespring/plumbing-leads/internal/auth"
	appconfig "github.com/cavespring/plumbing-leads/internal/config"
	"github.com/cavespring/plumbing-leads/internal/intake"
	"github.com/cavespring/plumbing-leads/internal/leads"
	"github.com/cavespring/plumbing-leads/internal/notify"
	"github.com/cavespring/plumbing-leads/internal/observability/metrics"
	"github.com/cavespring/plumbing-leads/pkg/logging"
)

func main() {
	// Load .env in local development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting plumbing-leads API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Lead storage: Postgres when configured, in-memory otherwise.
	var leadsRepo leads.Repository
	if pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger); pool != nil {
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		logger.Info("using postgres lead repository")
	} else {
		leadsRepo = leads.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, leads are stored in memory only")
	}

	// Admin sessions: Redis when configured, in-memory otherwise.
	sessions, redisClient := setupSessions(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	metricsHandler, leadMetrics := setupMetrics()

	business := intake.BusinessInfo{
		Name:  cfg.BusinessName,
		Phone: cfg.BusinessPhone,
		SMS:   cfg.BusinessSMS,
		Email: cfg.BusinessEmail,
	}

	emailSender := setupEmailSender(ctx, cfg, logger)
	var notifier intake.Notifier
	if alerts := notify.NewAlertService(emailSender, notifyRecipients(cfg), cfg.BusinessName, logger); alerts != nil {
		notifier = alerts
	}

	intakeService := intake.NewService(leadsRepo, notifier, business, logger, leadMetrics)

	authHandler := auth.NewHandler(auth.Config{
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		JWTSecret:    cfg.AdminJWTSecret,
		SessionTTL:   cfg.SessionTTL,
	}, sessions, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(leadsRepo, logger, leadMetrics),
		IntakeHandler:      intake.NewHandler(intakeService, logger),
		AuthHandler:        authHandler,
		AdminJWTSecret:     cfg.AdminJWTSecret,
		Sessions:           sessions,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IntakeRateLimit:    cfg.IntakeRateLimit,
		IntakeBurst:        cfg.IntakeRateBurst,
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

	// Let detached intake persists land before the process exits.
	intakeService.Wait()

	logger.Info("server stopped")
}

// connectPostgresPool opens a pgx pool, or returns nil when no URL is
// configured or the database is unreachable.
func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// setupSessions picks the session store. Redis keeps sessions revocable
// across instances; the memory store is fine for a single process.
func setupSessions(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (auth.SessionStore, *redis.Client) {
	if cfg.RedisAddr == "" {
		return auth.NewMemorySessionStore(), nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("failed to ping redis, falling back to memory sessions", "error", err)
		_ = client.Close()
		return auth.NewMemorySessionStore(), nil
	}
	logger.Info("using redis session store", "addr", cfg.RedisAddr)
	return auth.NewRedisSessionStore(client), client
}

// setupMetrics builds an isolated registry so tests never collide on
// the default one.
func setupMetrics() (http.Handler, *metrics.LeadMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	leadMetrics := metrics.NewLeadMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), leadMetrics
}

// setupEmailSender picks the outbound email implementation from
// EMAIL_PROVIDER. Returns nil when notifications are disabled.
func setupEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("EMAIL_PROVIDER=sendgrid but SENDGRID_API_KEY is empty")
			return nil
		}
		return sender
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			return nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.BusinessEmail,
			FromName:  cfg.BusinessName,
		}, logger)
	case "", "none":
		return nil
	default:
		logger.Warn("unknown EMAIL_PROVIDER, notifications disabled", "provider", cfg.EmailProvider)
		return nil
	}
}

func notifyRecipients(cfg *appconfig.Config) []string {
	if cfg.NotifyEmail != "" {
		return []string{cfg.NotifyEmail}
	}
	if cfg.BusinessEmail != "" {
		return []string{cfg.BusinessEmail}
	}
	return nil
}
