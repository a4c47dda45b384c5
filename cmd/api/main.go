package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Chawketodeh/eventy-events-platform/internal/config"
	"github.com/Chawketodeh/eventy-events-platform/internal/server"
	"github.com/Chawketodeh/eventy-events-platform/pkg/cache"
	"github.com/Chawketodeh/eventy-events-platform/pkg/database"
	"github.com/Chawketodeh/eventy-events-platform/pkg/email"
	"github.com/Chawketodeh/eventy-events-platform/pkg/identity"
	"github.com/Chawketodeh/eventy-events-platform/pkg/jwt"
	"github.com/Chawketodeh/eventy-events-platform/pkg/logger"
	"github.com/Chawketodeh/eventy-events-platform/pkg/metrics"
	"github.com/Chawketodeh/eventy-events-platform/pkg/payment"
	"github.com/Chawketodeh/eventy-events-platform/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("failed to migrate database", zap.Error(err))
	}

	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	deps := server.Deps{
		Config:        cfg,
		DB:            db,
		Logger:        zl,
		Metrics:       metrics.New(),
		Checkout:      stripeService,
		StripeWebhook: stripeService,
	}
	if cfg.Stripe.SecretKey == "" {
		zl.Warn("STRIPE_SECRET_KEY is not set; paid checkout will fail")
	}

	if cfg.Clerk.JWTKey != "" {
		verifier, err := jwt.NewVerifier(cfg.Clerk.JWTKey)
		if err != nil {
			zl.Fatal("invalid CLERK_JWT_KEY", zap.Error(err))
		}
		deps.Tokens = verifier
	} else {
		zl.Warn("CLERK_JWT_KEY is not set; authenticated routes are unavailable")
	}

	if cfg.Clerk.SecretKey != "" {
		deps.Metadata = identity.NewClerkClient(cfg.Clerk.SecretKey)
	}

	if cfg.Clerk.WebhookSigningSecret != "" {
		hooks, err := identity.NewWebhookVerifier(cfg.Clerk.WebhookSigningSecret)
		if err != nil {
			zl.Fatal("invalid CLERK_WEBHOOK_SIGNING_SECRET", zap.Error(err))
		}
		deps.IdentityWebhook = hooks
	}

	if cfg.Email.ResendAPIKey != "" && cfg.Email.FromAddress != "" {
		deps.Mailer = email.NewEmailService(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, cfg.Email.FromName, zl)
	}

	if cfg.R2.Enabled() {
		r2, err := storage.NewR2Storage(ctx, cfg.R2)
		if err != nil {
			zl.Fatal("failed to initialize R2 storage", zap.Error(err))
		}
		deps.Images = r2
	}

	if cfg.RedisURL != "" {
		rs, err := cache.NewRedisStorage(cfg.RedisURL, "eventy:ratelimit:")
		if err != nil {
			zl.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rs.Close()
		deps.RateLimitStorage = rs
	}

	app := server.New(deps)

	go func() {
		<-ctx.Done()
		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			zl.Error("server shutdown failed", zap.Error(err))
		}
	}()

	zl.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Error("server stopped", zap.Error(err))
	}

	if err := database.Close(db); err != nil {
		zl.Error("failed to close database", zap.Error(err))
	}
}
