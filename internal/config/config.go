package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string

	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	JWTSecret         string
	JWTAccessTokenTTL time.Duration

	PaymentDeadline time.Duration
	ExpiryTick      time.Duration
	ReloadDebounce  time.Duration
	ReloadGrace     time.Duration

	MatchRequestPageSize int

	AMQPURL      string
	AMQPExchange string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Upstream booking platform base URL is required
	cfg.UpstreamBaseURL = os.Getenv("UPSTREAM_BASE_URL")
	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL is required")
	}

	// Upstream request timeout (default: 10s)
	cfg.UpstreamTimeout, err = getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	// JWT secret is required for validating tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	// Unpaid bookings auto-expire this long after creation (default: 2h).
	cfg.PaymentDeadline, err = getEnvAsDuration("PAYMENT_DEADLINE", 2*time.Hour)
	if err != nil {
		return nil, err
	}

	// Expiry monitor tick interval (default: 30s)
	cfg.ExpiryTick, err = getEnvAsDuration("EXPIRY_TICK", 30*time.Second)
	if err != nil {
		return nil, err
	}

	// Expiry-triggered reload debounce and in-flight grace period
	cfg.ReloadDebounce, err = getEnvAsDuration("RELOAD_DEBOUNCE", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ReloadGrace, err = getEnvAsDuration("RELOAD_GRACE", 3*time.Second)
	if err != nil {
		return nil, err
	}

	// Bulk match-request page size; large enough to approximate "all"
	cfg.MatchRequestPageSize, err = getEnvAsInt("MATCH_REQUEST_PAGE_SIZE", 200)
	if err != nil {
		return nil, err
	}

	// Optional event broker; empty URL disables publishing
	cfg.AMQPURL = getEnv("AMQP_URL", "")
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", "fieldbook.events")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration retrieves an environment variable as a time.Duration
// (e.g. "30s", "2h"). It returns the default value if the variable is not
// set, and an error when the value does not parse.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return val, nil
}
