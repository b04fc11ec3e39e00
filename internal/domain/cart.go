package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// CartEntry pairs a product with a quantity of at least one
type CartEntry struct {
	Product  *Product
	Quantity int
}

// Subtotal is the effective unit price times the quantity
func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart is an ordered collection of entries holding at most one entry per
// product. Entries keep their insertion order. A Cart is not safe for
// concurrent use; callers serialise access through a SessionRepository.
type Cart struct {
	entries []CartEntry
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(productID string) int {
	return slices.IndexFunc(c.entries, func(e CartEntry) bool {
		return e.Product.ID == productID
	})
}

// AddItem increments the quantity of an existing entry for product, or
// appends a new entry. Quantities below one are treated as one.
func (c *Cart) AddItem(product *Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if i := c.indexOf(product.ID); i >= 0 {
		c.entries[i].Quantity += quantity
		return
	}
	c.entries = append(c.entries, CartEntry{Product: product, Quantity: quantity})
}

// RemoveItem deletes the entry for productID. It reports whether an entry was removed.
func (c *Cart) RemoveItem(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	return true
}

// UpdateQuantity sets the quantity of the entry for productID, clamping
// values below one to one. It never removes the entry and reports whether
// the product was in the cart.
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	if quantity < 1 {
		quantity = 1
	}
	c.entries[i].Quantity = quantity
	return true
}

// contains reports whether the cart holds an entry for productID
func (c *Cart) contains(productID string) bool {
	return c.indexOf(productID) >= 0
}

// Total sums the subtotal of every entry
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.entries {
		total = total.Add(e.Subtotal())
	}
	return total
}

// ItemCount sums quantities across entries
func (c *Cart) ItemCount() int {
	n := 0
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.entries = nil
}

// IsEmpty reports whether the cart has no entries
func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

// Entries returns a copy of the entries in insertion order
func (c *Cart) Entries() []CartEntry {
	return slices.Clone(c.entries)
}

// Clone returns an independent copy of the cart
func (c *Cart) Clone() *Cart {
	return &Cart{entries: slices.Clone(c.entries)}
}
