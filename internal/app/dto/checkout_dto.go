package dto

import (
	"time"

	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/shopspring/decimal"
)

// CheckoutRequest represents the checkout form
type CheckoutRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	Zip        string `json:"zip"`
	CardName   string `json:"card_name"`
	CardNumber string `json:"card_number"`
	CardExpiry string `json:"card_expiry"`
	CardCVC    string `json:"card_cvc"`
}

// ToDetails converts the form into domain checkout details
func (r *CheckoutRequest) ToDetails() domain.CheckoutDetails {
	return domain.CheckoutDetails{
		Name:       r.Name,
		Email:      r.Email,
		Address:    r.Address,
		City:       r.City,
		Country:    r.Country,
		Zip:        r.Zip,
		CardName:   r.CardName,
		CardNumber: r.CardNumber,
		CardExpiry: r.CardExpiry,
		CardCVC:    r.CardCVC,
	}
}

// CheckoutResponse represents a checkout and its progress
type CheckoutResponse struct {
	ID          string              `json:"id"`
	Status      string              `json:"status"`
	OrderNumber string              `json:"order_number,omitempty"`
	Items       []*CartItemResponse `json:"items"`
	ItemCount   int                 `json:"item_count"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Tax         decimal.Decimal     `json:"tax"`
	Total       decimal.Decimal     `json:"total"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	CardLast4   string              `json:"card_last4"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToCheckoutResponse converts a domain Checkout
func ToCheckoutResponse(c *domain.Checkout) *CheckoutResponse {
	return &CheckoutResponse{
		ID:          c.ID,
		Status:      string(c.Status),
		OrderNumber: c.OrderNumber,
		Items:       ToCartItemResponseList(c.Items),
		ItemCount:   c.ItemCount(),
		Subtotal:    c.Subtotal,
		Tax:         c.Tax,
		Total:       c.Total,
		Name:        c.Name,
		Email:       c.Email,
		CardLast4:   c.CardLast4,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCheckoutResponseList converts a list of checkouts
func ToCheckoutResponseList(checkouts []*domain.Checkout) []*CheckoutResponse {
	responses := make([]*CheckoutResponse, len(checkouts))
	for i, c := range checkouts {
		responses[i] = ToCheckoutResponse(c)
	}
	return responses
}
