package dto

import (
	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ListProductsRequest carries the raw catalog query parameters
type ListProductsRequest struct {
	Category string
	Search   string
	Sort     string
	Filter   string
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"short_description"`
	Price            decimal.Decimal   `json:"price"`
	DiscountPrice    *decimal.Decimal  `json:"discount_price,omitempty"`
	EffectivePrice   decimal.Decimal   `json:"effective_price"`
	OnSale           bool              `json:"on_sale"`
	Category         string            `json:"category"`
	CategoryLabel    string            `json:"category_label"`
	Subcategory      string            `json:"subcategory,omitempty"`
	Image            string            `json:"image"`
	Features         []string          `json:"features"`
	TechnicalSpecs   map[string]string `json:"technical_specs"`
	Compatibility    []string          `json:"compatibility"`
	LicenseType      string            `json:"license_type"`
	LicenseDuration  string            `json:"license_duration,omitempty"`
	Downloads        int               `json:"downloads"`
	Rating           float64           `json:"rating"`
	ReviewCount      int               `json:"review_count"`
	IsFeatured       bool              `json:"is_featured"`
	IsNewRelease     bool              `json:"is_new_release"`
	ReleaseDate      string            `json:"release_date"`
}

// ProductListResponse wraps a query result with its size
type ProductListResponse struct {
	Products []*ProductResponse `json:"products"`
	Count    int                `json:"count"`
}

// CategoryResponse describes one category and how many products it holds
type CategoryResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            p.Price,
		DiscountPrice:    p.DiscountPrice,
		EffectivePrice:   p.EffectivePrice(),
		OnSale:           p.HasDiscount(),
		Category:         string(p.Category),
		CategoryLabel:    p.Category.Label(),
		Subcategory:      p.Subcategory,
		Image:            p.Image,
		Features:         p.Features,
		TechnicalSpecs:   p.TechnicalSpecs,
		Compatibility:    p.Compatibility,
		LicenseType:      string(p.LicenseType),
		LicenseDuration:  p.LicenseDuration,
		Downloads:        p.Downloads,
		Rating:           p.Rating,
		ReviewCount:      p.ReviewCount,
		IsFeatured:       p.IsFeatured,
		IsNewRelease:     p.IsNewRelease,
		ReleaseDate:      p.ReleaseDate,
	}
}

// ToProductListResponse converts a list of domain Products
func ToProductListResponse(products []*domain.Product) *ProductListResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return &ProductListResponse{Products: responses, Count: len(responses)}
}

// ToCategoryResponseList converts category counts
func ToCategoryResponseList(counts []domain.CategoryCount) []*CategoryResponse {
	responses := make([]*CategoryResponse, len(counts))
	for i, c := range counts {
		responses[i] = &CategoryResponse{
			ID:    string(c.Category),
			Label: c.Category.Label(),
			Count: c.Count,
		}
	}
	return responses
}
