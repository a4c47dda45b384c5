package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

// Enabled reports whether enough is configured to talk to the bucket.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.Bucket != ""
}

type ClerkConfig struct {
	SecretKey            string
	JWTKey               string
	WebhookSigningSecret string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	FromName     string
}

type Config struct {
	Port             string
	DatabaseURL      string
	DBConnectTimeout time.Duration
	LogLevel         string
	LogFormat        string
	CORSOrigins      string
	PublicServerURL  string
	GoogleMapsAPIKey string
	RedisURL         string
	RateLimitMax     int

	Clerk  ClerkConfig
	Stripe StripeConfig
	Email  EmailConfig
	R2     R2Config
}

// Load reads the configuration from the environment. DATABASE_URL is the
// only required value.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBConnectTimeout: time.Duration(getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5)) * time.Second,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "*"),
		PublicServerURL:  strings.TrimRight(getEnv("PUBLIC_SERVER_URL", "http://localhost:3000"), "/"),
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
		RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 60),
	}

	cfg.Clerk.SecretKey = os.Getenv("CLERK_SECRET_KEY")
	cfg.Clerk.JWTKey = os.Getenv("CLERK_JWT_KEY")
	cfg.Clerk.WebhookSigningSecret = os.Getenv("CLERK_WEBHOOK_SIGNING_SECRET")

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.Email.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Email.FromAddress = os.Getenv("EMAIL_FROM_ADDRESS")
	cfg.Email.FromName = getEnv("EMAIL_FROM_NAME", "Eventy")

	// R2 config
	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = strings.TrimRight(os.Getenv("R2_PUBLIC_URL"), "/")

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if cfg.DBConnectTimeout <= 0 {
		return nil, errors.New("DB_CONNECT_TIMEOUT_SEC must be positive")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
