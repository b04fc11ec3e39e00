package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/cyberstore-api/internal/app/dto"
	"github.com/mrops-br/cyberstore-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CartService routes every cart mutation of a session through the cart operations
type CartService struct {
	products       domain.ProductRepository
	sessions       domain.SessionRepository
	tracer         trace.Tracer
	logger         *slog.Logger
	cartOperations metric.Int64Counter
	cartValue      metric.Float64Histogram
}

// NewCartService creates a new cart service
func NewCartService(
	products domain.ProductRepository,
	sessions domain.SessionRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CartService {
	cartOperations, _ := meter.Int64Counter(
		"cart.operations",
		metric.WithDescription("Total number of cart operations"),
	)

	cartValue, _ := meter.Float64Histogram(
		"cart.value",
		metric.WithDescription("Cart total after each mutation"),
		metric.WithUnit("USD"),
	)

	return &CartService{
		products:       products,
		sessions:       sessions,
		tracer:         tracer,
		logger:         logger,
		cartOperations: cartOperations,
		cartValue:      cartValue,
	}
}

func (s *CartService) record(ctx context.Context, operation, result string) {
	s.cartOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// mutate applies fn to the session cart and returns the resulting cart
func (s *CartService) mutate(ctx context.Context, span trace.Span, operation, sessionID string, fn func(*domain.Cart) error) (*dto.CartResponse, error) {
	var resp *dto.CartResponse
	err := s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		if err := fn(session.Cart); err != nil {
			return err
		}
		resp = dto.ToCartResponse(session.Cart)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Cart "+operation+" failed")
		s.logger.WarnContext(ctx, "Cart operation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		s.record(ctx, operation, "failure")
		return nil, err
	}

	total, _ := resp.Total.Float64()
	s.cartValue.Record(ctx, total)
	s.record(ctx, operation, "success")

	span.SetAttributes(
		attribute.Int("cart.item_count", resp.ItemCount),
		attribute.String("cart.total", resp.Total.StringFixed(2)),
	)
	span.SetStatus(codes.Ok, "Cart "+operation+" succeeded")
	return resp, nil
}

// GetCart returns the cart of a session
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.GetCart")
	defer span.End()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load session")
		return nil, err
	}

	resp := dto.ToCartResponse(session.Cart)
	span.SetAttributes(attribute.Int("cart.item_count", resp.ItemCount))
	span.SetStatus(codes.Ok, "Cart retrieved")
	return resp, nil
}

// AddItem adds quantity of a product to the cart, merging with an existing entry
func (s *CartService) AddItem(ctx context.Context, sessionID string, req *dto.AddCartItemRequest) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.record(ctx, "add", "not_found")
		return nil, err
	}

	resp, err := s.mutate(ctx, span, "add", sessionID, func(cart *domain.Cart) error {
		cart.AddItem(product, req.Quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Product added to cart",
		slog.String("product_id", product.ID),
		slog.Int("quantity", req.Quantity),
		slog.Int("item_count", resp.ItemCount),
	)
	return resp, nil
}

// RemoveItem removes a product from the cart. Removing an absent product is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveItem")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", productID))

	var removed bool
	resp, err := s.mutate(ctx, span, "remove", sessionID, func(cart *domain.Cart) error {
		removed = cart.RemoveItem(productID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("cart.removed", removed))
	s.logger.InfoContext(ctx, "Product removed from cart",
		slog.String("product_id", productID),
		slog.Bool("removed", removed),
	)
	return resp, nil
}

// UpdateQuantity sets the quantity of a cart entry, clamping values below one.
// Updating a product that is not in the cart is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, req *dto.UpdateCartItemRequest) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("quantity", req.Quantity),
	)

	var updated bool
	resp, err := s.mutate(ctx, span, "update", sessionID, func(cart *domain.Cart) error {
		updated = cart.UpdateQuantity(productID, req.Quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("cart.updated", updated))
	s.logger.InfoContext(ctx, "Cart quantity updated",
		slog.String("product_id", productID),
		slog.Int("quantity", req.Quantity),
		slog.Bool("updated", updated),
	)
	return resp, nil
}

// ClearCart empties the cart
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.ClearCart")
	defer span.End()

	resp, err := s.mutate(ctx, span, "clear", sessionID, func(cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Cart cleared")
	return resp, nil
}
