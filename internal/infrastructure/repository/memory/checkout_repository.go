package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/mrops-br/cyberstore-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CheckoutRepository is an in-memory implementation of domain.CheckoutRepository.
// Stored checkouts are copied on the way in and out.
type CheckoutRepository struct {
	mu        sync.RWMutex
	checkouts map[string]*domain.Checkout
	order     []string
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewCheckoutRepository creates an empty checkout store
func NewCheckoutRepository(tracer trace.Tracer, logger *slog.Logger) *CheckoutRepository {
	return &CheckoutRepository{
		checkouts: make(map[string]*domain.Checkout),
		tracer:    tracer,
		logger:    logger,
	}
}

func cloneCheckout(c *domain.Checkout) *domain.Checkout {
	cp := *c
	cp.Items = slices.Clone(c.Items)
	return &cp
}

// Create stores a new checkout
func (r *CheckoutRepository) Create(ctx context.Context, checkout *domain.Checkout) error {
	ctx, span := r.tracer.Start(ctx, "CheckoutRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("checkout.id", checkout.ID),
		attribute.String("checkout.status", string(checkout.Status)),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.checkouts[checkout.ID]; exists {
		err := errors.Errorf("checkout %q already exists", checkout.ID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Duplicate checkout")
		return err
	}

	r.checkouts[checkout.ID] = cloneCheckout(checkout)
	r.order = append(r.order, checkout.ID)

	r.logger.InfoContext(ctx, "Checkout created in repository",
		slog.String("checkout_id", checkout.ID),
	)

	span.SetStatus(codes.Ok, "Checkout created successfully")
	return nil
}

// FindByID retrieves a checkout by ID
func (r *CheckoutRepository) FindByID(ctx context.Context, id string) (*domain.Checkout, error) {
	ctx, span := r.tracer.Start(ctx, "CheckoutRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("checkout.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	checkout, exists := r.checkouts[id]
	if !exists {
		span.RecordError(domain.ErrCheckoutNotFound)
		span.SetStatus(codes.Error, "Checkout not found")
		r.logger.WarnContext(ctx, "Checkout not found",
			slog.String("checkout_id", id),
		)
		return nil, domain.ErrCheckoutNotFound
	}

	span.SetStatus(codes.Ok, "Checkout found")
	return cloneCheckout(checkout), nil
}

// FindBySession returns the checkouts of a session, oldest first
func (r *CheckoutRepository) FindBySession(ctx context.Context, sessionID string) ([]*domain.Checkout, error) {
	_, span := r.tracer.Start(ctx, "CheckoutRepository.FindBySession")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Checkout
	for _, id := range r.order {
		if c := r.checkouts[id]; c.SessionID == sessionID {
			result = append(result, cloneCheckout(c))
		}
	}

	span.SetAttributes(attribute.Int("checkout.count", len(result)))
	span.SetStatus(codes.Ok, "Checkouts retrieved")
	return result, nil
}

// Update runs fn against a copy of the stored checkout and keeps the copy
// only when fn succeeds
func (r *CheckoutRepository) Update(ctx context.Context, id string, fn func(*domain.Checkout) error) error {
	ctx, span := r.tracer.Start(ctx, "CheckoutRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("checkout.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	checkout, exists := r.checkouts[id]
	if !exists {
		span.RecordError(domain.ErrCheckoutNotFound)
		span.SetStatus(codes.Error, "Checkout not found")
		return domain.ErrCheckoutNotFound
	}

	working := cloneCheckout(checkout)
	if err := fn(working); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Checkout update rejected")
		return err
	}
	r.checkouts[id] = working

	r.logger.DebugContext(ctx, "Checkout updated in repository",
		slog.String("checkout_id", id),
		slog.String("status", string(working.Status)),
	)

	span.SetStatus(codes.Ok, "Checkout updated")
	return nil
}
