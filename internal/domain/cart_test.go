package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

func testProduct(id, base string, discount *decimal.Decimal) *Product {
	return &Product{
		ID:            id,
		Name:          id,
		Price:         price(base),
		DiscountPrice: discount,
		Category:      CategoryAntivirus,
	}
}

func TestCart_AddItemMergesQuantities(t *testing.T) {
	cart := NewCart()
	p := testProduct("a", "10", nil)

	cart.AddItem(p, 1)
	cart.AddItem(p, 2)

	entries := cart.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Quantity)
}

func TestCart_AddItemPreservesInsertionOrder(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("b", "1", nil), 1)
	cart.AddItem(testProduct("a", "1", nil), 1)
	cart.AddItem(testProduct("c", "1", nil), 1)
	cart.AddItem(testProduct("a", "1", nil), 4)

	var ids []string
	for _, e := range cart.Entries() {
		ids = append(ids, e.Product.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestCart_AddItemNonPositiveQuantityAddsOne(t *testing.T) {
	cart := NewCart()
	p := testProduct("a", "10", nil)

	cart.AddItem(p, 0)
	cart.AddItem(p, -5)

	assert.Equal(t, 2, cart.ItemCount())
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("a", "10", nil), 1)
	cart.AddItem(testProduct("b", "10", nil), 1)

	assert.True(t, cart.RemoveItem("a"))
	assert.False(t, cart.contains("a"))
	assert.True(t, cart.contains("b"))

	assert.False(t, cart.RemoveItem("missing"))
	assert.Len(t, cart.Entries(), 1)
}

func TestCart_UpdateQuantityClampsToOne(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("a", "10", nil), 5)

	assert.True(t, cart.UpdateQuantity("a", 0))
	require.True(t, cart.contains("a"))
	assert.Equal(t, 1, cart.Entries()[0].Quantity)

	assert.True(t, cart.UpdateQuantity("a", -3))
	assert.Equal(t, 1, cart.Entries()[0].Quantity)

	assert.True(t, cart.UpdateQuantity("a", 7))
	assert.Equal(t, 7, cart.Entries()[0].Quantity)
}

func TestCart_UpdateQuantityMissingProductIsNoOp(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("a", "10", nil), 2)

	assert.False(t, cart.UpdateQuantity("b", 9))
	assert.Equal(t, 2, cart.ItemCount())
	assert.False(t, cart.contains("b"))
}

func TestCart_TotalUsesEffectivePrice(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("a", "80", pricePtr("50")), 2)
	cart.AddItem(testProduct("b", "30", nil), 1)

	assert.True(t, cart.Total().Equal(price("130")), "got %s", cart.Total())
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCart_SingleProductScenario(t *testing.T) {
	cart := NewCart()
	a := testProduct("a", "59.99", nil)

	cart.AddItem(a, 1)
	assert.Equal(t, "59.99", cart.Total().StringFixed(2))

	cart.RemoveItem(a.ID)
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("a", "10", nil), 3)
	cart.AddItem(testProduct("b", "10", nil), 1)

	cart.Clear()

	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.IsEmpty())
}

func TestCart_EntriesAndCloneAreIndependent(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("a", "10", nil), 1)

	entries := cart.Entries()
	entries[0].Quantity = 99

	clone := cart.Clone()
	clone.AddItem(testProduct("b", "10", nil), 1)

	assert.Equal(t, 1, cart.ItemCount())
	assert.Equal(t, 2, clone.ItemCount())
}
