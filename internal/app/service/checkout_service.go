package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-faster/errors"

	"github.com/mrops-br/cyberstore-api/internal/app/dto"
	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CheckoutService runs the simulated checkout: details are submitted, the
// payment gateway is charged in the background and the checkout is
// confirmed once the charge returns.
type CheckoutService struct {
	sessions          domain.SessionRepository
	checkouts         domain.CheckoutRepository
	gateway           domain.PaymentGateway
	taxRate           decimal.Decimal
	tracer            trace.Tracer
	logger            *slog.Logger
	checkoutStarted   metric.Int64Counter
	checkoutCompleted metric.Int64Counter
	inflight          sync.WaitGroup

	// sessions with a checkout between submit and the end of its charge
	mu      sync.Mutex
	pending map[string]struct{}
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	sessions domain.SessionRepository,
	checkouts domain.CheckoutRepository,
	gateway domain.PaymentGateway,
	taxRate decimal.Decimal,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CheckoutService {
	checkoutStarted, _ := meter.Int64Counter(
		"checkout.started",
		metric.WithDescription("Total number of checkouts submitted"),
	)

	checkoutCompleted, _ := meter.Int64Counter(
		"checkout.completed",
		metric.WithDescription("Total number of checkouts that finished processing"),
	)

	return &CheckoutService{
		sessions:          sessions,
		checkouts:         checkouts,
		gateway:           gateway,
		taxRate:           taxRate,
		tracer:            tracer,
		logger:            logger,
		checkoutStarted:   checkoutStarted,
		checkoutCompleted: checkoutCompleted,
		pending:           make(map[string]struct{}),
	}
}

// claim marks the session as having a charge in flight. It fails while an
// earlier checkout of the same session is still being charged.
func (s *CheckoutService) claim(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.pending[sessionID]; busy {
		return errors.Wrap(domain.ErrInvalidTransition, "a checkout is already processing")
	}
	s.pending[sessionID] = struct{}{}
	return nil
}

func (s *CheckoutService) release(sessionID string) {
	s.mu.Lock()
	delete(s.pending, sessionID)
	s.mu.Unlock()
}

// Start submits the session cart for payment and returns the checkout in
// the processing stage
func (s *CheckoutService) Start(ctx context.Context, sessionID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Start")
	defer span.End()

	if err := s.claim(sessionID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Checkout already processing")
		s.logger.WarnContext(ctx, "Checkout rejected",
			slog.String("error", err.Error()),
		)
		s.checkoutStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "duplicate")))
		return nil, err
	}
	// cleared by the background charge once it has been handed off
	handedOff := false
	defer func() {
		if !handedOff {
			s.release(sessionID)
		}
	}()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load session")
		return nil, err
	}

	checkout, err := domain.NewCheckout(sessionID, session.Cart, req.ToDetails(), s.taxRate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Checkout rejected")
		s.logger.WarnContext(ctx, "Checkout rejected",
			slog.String("error", err.Error()),
		)
		s.checkoutStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "rejected")))
		return nil, err
	}

	if err := checkout.Submit(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Checkout submit failed")
		return nil, err
	}

	if err := s.checkouts.Create(ctx, checkout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store checkout")
		s.logger.ErrorContext(ctx, "Failed to store checkout",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("checkout.id", checkout.ID),
		attribute.String("checkout.total", checkout.Total.StringFixed(2)),
		attribute.Int("checkout.item_count", checkout.ItemCount()),
	)
	s.checkoutStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "accepted")))

	s.logger.InfoContext(ctx, "Checkout submitted",
		slog.String("checkout_id", checkout.ID),
		slog.String("total", checkout.Total.StringFixed(2)),
	)

	charge := domain.ChargeRequest{
		CheckoutID: checkout.ID,
		Amount:     checkout.Total,
		CardName:   req.CardName,
		CardLast4:  checkout.CardLast4,
		Email:      checkout.Email,
	}

	handedOff = true

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer s.release(sessionID)
		s.process(context.WithoutCancel(ctx), checkout.ID, sessionID, charge)
	}()

	span.SetStatus(codes.Ok, "Checkout submitted")
	return dto.ToCheckoutResponse(checkout), nil
}

// process charges the gateway and confirms the checkout
func (s *CheckoutService) process(ctx context.Context, checkoutID, sessionID string, charge domain.ChargeRequest) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.process")
	defer span.End()

	span.SetAttributes(attribute.String("checkout.id", checkoutID))

	receipt, err := s.gateway.Charge(ctx, charge)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Charge failed")
		s.logger.ErrorContext(ctx, "Payment charge failed",
			slog.String("checkout_id", checkoutID),
			slog.String("error", err.Error()),
		)
		s.checkoutCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "failure")))
		return
	}

	err = s.checkouts.Update(ctx, checkoutID, func(c *domain.Checkout) error {
		return c.Confirm(receipt)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Confirmation failed")
		s.logger.ErrorContext(ctx, "Failed to confirm checkout",
			slog.String("checkout_id", checkoutID),
			slog.String("error", err.Error()),
		)
		s.checkoutCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "failure")))
		return
	}

	err = s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		session.Cart.Clear()
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to clear cart after checkout",
			slog.String("checkout_id", checkoutID),
			slog.String("error", err.Error()),
		)
	}

	s.checkoutCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "success")))
	s.logger.InfoContext(ctx, "Checkout confirmed",
		slog.String("checkout_id", checkoutID),
		slog.String("order_number", receipt.OrderNumber),
	)

	span.SetStatus(codes.Ok, "Checkout confirmed")
}

// Get returns a checkout owned by the session
func (s *CheckoutService) Get(ctx context.Context, sessionID, id string) (*dto.CheckoutResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Get")
	defer span.End()

	span.SetAttributes(attribute.String("checkout.id", id))

	checkout, err := s.checkouts.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Checkout not found")
		return nil, err
	}
	if checkout.SessionID != sessionID {
		span.SetStatus(codes.Error, "Checkout belongs to another session")
		s.logger.WarnContext(ctx, "Checkout requested by another session",
			slog.String("checkout_id", id),
		)
		return nil, domain.ErrCheckoutNotFound
	}

	span.SetAttributes(attribute.String("checkout.status", string(checkout.Status)))
	span.SetStatus(codes.Ok, "Checkout found")
	return dto.ToCheckoutResponse(checkout), nil
}

// ListBySession returns the checkouts of a session, oldest first
func (s *CheckoutService) ListBySession(ctx context.Context, sessionID string) ([]*dto.CheckoutResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.ListBySession")
	defer span.End()

	checkouts, err := s.checkouts.FindBySession(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list checkouts")
		return nil, err
	}

	span.SetAttributes(attribute.Int("checkout.count", len(checkouts)))
	span.SetStatus(codes.Ok, "Checkouts listed")
	return dto.ToCheckoutResponseList(checkouts), nil
}

// Wait blocks until every background charge has finished
func (s *CheckoutService) Wait() {
	s.inflight.Wait()
}
