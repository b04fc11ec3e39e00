package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "cyberstore-api", cfg.OTLP.ServiceName)
	assert.True(t, cfg.OTLP.ExportEnabled)
	assert.Equal(t, 24*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, 2*time.Second, cfg.Checkout.PaymentDelay)
	assert.True(t, cfg.Checkout.TaxRate.IsZero())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OTEL_EXPORT_ENABLED", "false")
	t.Setenv("JWT_TOKEN_TTL", "30m")
	t.Setenv("CHECKOUT_PAYMENT_DELAY", "10ms")
	t.Setenv("SESSION_IDLE_TTL", "2h")
	t.Setenv("CHECKOUT_TAX_RATE", "0.2")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.OTLP.ExportEnabled)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Millisecond, cfg.Checkout.PaymentDelay)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	assert.True(t, cfg.Checkout.TaxRate.Equal(decimal.RequireFromString("0.2")))
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	t.Setenv("OTEL_EXPORT_ENABLED", "maybe")
	t.Setenv("CHECKOUT_TAX_RATE", "ten percent")

	cfg := LoadConfig()

	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.OTLP.ExportEnabled)
	assert.True(t, cfg.Checkout.TaxRate.IsZero())
}

func TestLoadConfig_DefaultSecretIsReported(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg := LoadConfig()
	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.UsesDefaultSecret())

	t.Setenv("JWT_SECRET", "rotated-secret")
	cfg = LoadConfig()
	assert.False(t, cfg.Auth.UsesDefaultSecret())
}
