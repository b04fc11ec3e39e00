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

// relatedProductsLimit caps the related products shown on a detail page
const relatedProductsLimit = 3

// CatalogService handles product browsing use cases
type CatalogService struct {
	repo              domain.ProductRepository
	tracer            trace.Tracer
	logger            *slog.Logger
	catalogQueries    metric.Int64Counter
	productOperations metric.Int64Counter
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	catalogQueries, _ := meter.Int64Counter(
		"catalog.queries",
		metric.WithDescription("Total number of catalog queries by sort order"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &CatalogService{
		repo:              repo,
		tracer:            tracer,
		logger:            logger,
		catalogQueries:    catalogQueries,
		productOperations: productOperations,
	}
}

func (s *CatalogService) record(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// ParseQuery validates raw query parameters
func ParseQuery(req *dto.ListProductsRequest) (domain.ProductQuery, error) {
	var q domain.ProductQuery

	if req.Category != "" {
		category, err := domain.ParseCategory(req.Category)
		if err != nil {
			return q, err
		}
		q.Category = category
	}

	sortBy, err := domain.ParseSortOrder(req.Sort)
	if err != nil {
		return q, err
	}
	q.SortBy = sortBy
	q.Search = req.Search

	if err := q.ApplyFilter(req.Filter); err != nil {
		return q, err
	}
	return q, nil
}

// ListProducts runs a filtered, sorted catalog query
func (s *CatalogService) ListProducts(ctx context.Context, req *dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	span.SetAttributes(
		attribute.String("query.category", req.Category),
		attribute.String("query.search", req.Search),
		attribute.String("query.sort", req.Sort),
		attribute.String("query.filter", req.Filter),
	)

	query, err := ParseQuery(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid query")
		s.logger.WarnContext(ctx, "Rejected catalog query",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "list", "invalid")
		return nil, err
	}

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve products")
		s.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "list", "failure")
		return nil, err
	}

	result := domain.QueryProducts(products, query)

	span.SetAttributes(attribute.Int("product.count", len(result)))
	s.catalogQueries.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("sort", string(query.SortBy)),
			attribute.Bool("filtered", query.Category != "" || query.Search != "" || query.Featured || query.NewRelease),
		),
	)
	s.record(ctx, "list", "success")

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(result)),
		slog.String("sort", string(query.SortBy)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductListResponse(result), nil
}

// GetProductByID retrieves a product by ID
func (s *CatalogService) GetProductByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.record(ctx, "read", "not_found")
		return nil, err
	}

	s.record(ctx, "read", "success")

	s.logger.InfoContext(ctx, "Product retrieved successfully",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// RelatedProducts lists products in the same category as id
func (s *CatalogService) RelatedProducts(ctx context.Context, id string) (*dto.ProductListResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.RelatedProducts")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.record(ctx, "related", "not_found")
		return nil, err
	}

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve products")
		s.record(ctx, "related", "failure")
		return nil, err
	}

	related := domain.RelatedProducts(products, product, relatedProductsLimit)
	s.record(ctx, "related", "success")

	span.SetAttributes(attribute.Int("product.count", len(related)))
	span.SetStatus(codes.Ok, "Related products listed")
	return dto.ToProductListResponse(related), nil
}

// FeaturedProducts lists featured products in catalog order
func (s *CatalogService) FeaturedProducts(ctx context.Context) (*dto.ProductListResponse, error) {
	return s.listFlagged(ctx, "featured", func(p *domain.Product) bool { return p.IsFeatured })
}

// NewReleases lists new releases in catalog order
func (s *CatalogService) NewReleases(ctx context.Context) (*dto.ProductListResponse, error) {
	return s.listFlagged(ctx, "new_releases", func(p *domain.Product) bool { return p.IsNewRelease })
}

func (s *CatalogService) listFlagged(ctx context.Context, operation string, keep func(*domain.Product) bool) (*dto.ProductListResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService."+operation)
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve products")
		s.record(ctx, operation, "failure")
		return nil, err
	}

	result := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			result = append(result, p)
		}
	}
	s.record(ctx, operation, "success")

	span.SetAttributes(attribute.Int("product.count", len(result)))
	span.SetStatus(codes.Ok, "Products listed")
	return dto.ToProductListResponse(result), nil
}

// Categories lists every category with its product count
func (s *CatalogService) Categories(ctx context.Context) ([]*dto.CategoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Categories")
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve products")
		s.record(ctx, "categories", "failure")
		return nil, err
	}

	s.record(ctx, "categories", "success")
	span.SetStatus(codes.Ok, "Categories listed")
	return dto.ToCategoryResponseList(domain.CountByCategory(products)), nil
}
