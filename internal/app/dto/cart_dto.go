package dto

import (
	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest represents the request to add a product to the cart.
// A missing quantity adds one.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents the request to change an entry's quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse is one cart entry
type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse represents the cart response
type CartResponse struct {
	Items     []*CartItemResponse `json:"items"`
	ItemCount int                 `json:"item_count"`
	Total     decimal.Decimal     `json:"total"`
}

// ToCartItemResponse converts a cart entry
func ToCartItemResponse(e domain.CartEntry) *CartItemResponse {
	return &CartItemResponse{
		ProductID: e.Product.ID,
		Name:      e.Product.Name,
		Image:     e.Product.Image,
		UnitPrice: e.Product.EffectivePrice(),
		Quantity:  e.Quantity,
		Subtotal:  e.Subtotal(),
	}
}

// ToCartItemResponseList converts cart entries
func ToCartItemResponseList(entries []domain.CartEntry) []*CartItemResponse {
	items := make([]*CartItemResponse, len(entries))
	for i, e := range entries {
		items[i] = ToCartItemResponse(e)
	}
	return items
}

// ToCartResponse converts a domain Cart to CartResponse
func ToCartResponse(c *domain.Cart) *CartResponse {
	return &CartResponse{
		Items:     ToCartItemResponseList(c.Entries()),
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
	}
}
