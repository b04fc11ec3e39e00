package dto

import (
	"testing"

	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToProductResponse_OnSale(t *testing.T) {
	discount := decimal.RequireFromString("39.99")
	sale := &domain.Product{
		ID:            "secure-files",
		Price:         decimal.RequireFromString("49.99"),
		DiscountPrice: &discount,
		Category:      domain.CategoryAntivirus,
	}
	full := &domain.Product{
		ID:       "full-price",
		Price:    decimal.RequireFromString("49.99"),
		Category: domain.CategoryAntivirus,
	}

	resp := ToProductResponse(sale)
	assert.True(t, resp.OnSale)
	assert.True(t, resp.EffectivePrice.Equal(discount))

	resp = ToProductResponse(full)
	assert.False(t, resp.OnSale)
	assert.Nil(t, resp.DiscountPrice)
	assert.True(t, resp.EffectivePrice.Equal(full.Price))
}
