package payment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mrops-br/cyberstore-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SimulatedGateway approves every charge after a fixed delay. No payment
// provider is contacted.
type SimulatedGateway struct {
	delay  time.Duration
	tracer trace.Tracer
	logger *slog.Logger
}

// NewSimulatedGateway creates a gateway that waits delay before approving
func NewSimulatedGateway(delay time.Duration, tracer trace.Tracer, logger *slog.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		delay:  delay,
		tracer: tracer,
		logger: logger,
	}
}

// Charge waits for the configured delay and returns a receipt
func (g *SimulatedGateway) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.PaymentReceipt, error) {
	ctx, span := g.tracer.Start(ctx, "SimulatedGateway.Charge")
	defer span.End()

	span.SetAttributes(
		attribute.String("checkout.id", req.CheckoutID),
		attribute.String("payment.amount", req.Amount.StringFixed(2)),
	)

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			span.SetStatus(codes.Error, "Charge interrupted")
			return nil, ctx.Err()
		}
	}

	receipt := &domain.PaymentReceipt{
		OrderNumber: newOrderNumber(),
		ChargedAt:   time.Now(),
	}

	g.logger.InfoContext(ctx, "Simulated charge approved",
		slog.String("checkout_id", req.CheckoutID),
		slog.String("order_number", receipt.OrderNumber),
		slog.String("amount", req.Amount.StringFixed(2)),
		slog.String("card_last4", req.CardLast4),
	)

	span.SetAttributes(attribute.String("order.number", receipt.OrderNumber))
	span.SetStatus(codes.Ok, "Charge approved")
	return receipt, nil
}

// newOrderNumber returns an order number of the form CYB-NNNNNN
func newOrderNumber() string {
	return fmt.Sprintf("CYB-%06d", rand.IntN(1_000_000))
}
