package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	OTLP     OTLPConfig
	Auth     AuthConfig
	Session  SessionConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type OTLPConfig struct {
	Endpoint      string
	ServiceName   string
	Environment   string
	ExportEnabled bool
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type SessionConfig struct {
	IdleTTL time.Duration
}

type CheckoutConfig struct {
	PaymentDelay time.Duration
	TaxRate      decimal.Decimal
}

// DefaultJWTSecret signs tokens when JWT_SECRET is unset. It is only fit for
// local development.
const DefaultJWTSecret = "cyberstore-development-secret"

// UsesDefaultSecret reports whether tokens are signed with DefaultJWTSecret
func (c AuthConfig) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", slog.String("error", err.Error()))
	}

	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		OTLP: OTLPConfig{
			Endpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:   getEnv("OTEL_SERVICE_NAME", "cyberstore-api"),
			Environment:   getEnv("OTEL_ENVIRONMENT", "development"),
			ExportEnabled: getBool("OTEL_EXPORT_ENABLED", true),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),
			TokenTTL:  getDuration("JWT_TOKEN_TTL", 24*time.Hour),
		},
		Session: SessionConfig{
			IdleTTL: getDuration("SESSION_IDLE_TTL", 24*time.Hour),
		},
		Checkout: CheckoutConfig{
			PaymentDelay: getDuration("CHECKOUT_PAYMENT_DELAY", 2*time.Second),
			TaxRate:      getDecimal("CHECKOUT_TAX_RATE", decimal.Zero),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", value),
			slog.String("default", defaultValue.String()),
		)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("Invalid boolean, using default",
			slog.String("key", key),
			slog.String("value", value),
		)
		return defaultValue
	}
	return b
}

func getDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		slog.Warn("Invalid decimal, using default",
			slog.String("key", key),
			slog.String("value", value),
		)
		return defaultValue
	}
	return d
}
