package payment

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestGateway(delay time.Duration) *SimulatedGateway {
	return NewSimulatedGateway(delay, noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var orderNumberPattern = regexp.MustCompile(`^CYB-\d{6}$`)

func TestSimulatedGateway_Charge(t *testing.T) {
	gateway := newTestGateway(20 * time.Millisecond)

	start := time.Now()
	receipt, err := gateway.Charge(context.Background(), domain.ChargeRequest{
		CheckoutID: "c1",
		Amount:     decimal.RequireFromString("59.99"),
		CardLast4:  "4242",
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Regexp(t, orderNumberPattern, receipt.OrderNumber)
	assert.False(t, receipt.ChargedAt.IsZero())
}

func TestSimulatedGateway_ChargeHonoursCancellation(t *testing.T) {
	gateway := newTestGateway(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gateway.Charge(ctx, domain.ChargeRequest{CheckoutID: "c1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedGateway_NoDelay(t *testing.T) {
	receipt, err := newTestGateway(0).Charge(context.Background(), domain.ChargeRequest{CheckoutID: "c1"})
	require.NoError(t, err)
	assert.Regexp(t, orderNumberPattern, receipt.OrderNumber)
}
