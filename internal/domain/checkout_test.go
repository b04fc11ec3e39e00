package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() CheckoutDetails {
	return CheckoutDetails{
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Address:    "12 Analytical Way",
		City:       "London",
		Country:    "UK",
		Zip:        "N1 9GU",
		CardName:   "A LOVELACE",
		CardNumber: "4242 4242 4242 1234",
		CardExpiry: "12/30",
		CardCVC:    "123",
	}
}

func TestCheckoutDetails_Validate(t *testing.T) {
	require.NoError(t, validDetails().Validate())

	missing := validDetails()
	missing.City = "  "
	err := missing.Validate()
	assert.ErrorIs(t, err, ErrMissingCheckoutInfo)
	assert.Contains(t, err.Error(), "city is required")

	badEmail := validDetails()
	badEmail.Email = "not-an-email"
	assert.ErrorIs(t, badEmail.Validate(), ErrInvalidEmail)
}

func TestCheckoutDetails_CardLast4(t *testing.T) {
	assert.Equal(t, "1234", validDetails().CardLast4())
	assert.Equal(t, "42", CheckoutDetails{CardNumber: "4-2"}.CardLast4())
}

func TestNewCheckout_EmptyCart(t *testing.T) {
	_, err := NewCheckout("s1", NewCart(), validDetails(), decimal.Zero)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNewCheckout_SnapshotsCart(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("a", "80", pricePtr("50")), 2)
	cart.AddItem(testProduct("b", "30", nil), 1)

	checkout, err := NewCheckout("s1", cart, validDetails(), decimal.RequireFromString("0.1"))
	require.NoError(t, err)

	assert.Equal(t, StatusDetails, checkout.Status)
	assert.Equal(t, "s1", checkout.SessionID)
	assert.NotEmpty(t, checkout.ID)
	assert.Equal(t, "130.00", checkout.Subtotal.StringFixed(2))
	assert.Equal(t, "13.00", checkout.Tax.StringFixed(2))
	assert.Equal(t, "143.00", checkout.Total.StringFixed(2))
	assert.Equal(t, "1234", checkout.CardLast4)
	assert.Equal(t, 3, checkout.ItemCount())

	cart.Clear()
	assert.Len(t, checkout.Items, 2)
}

func TestCheckout_Transitions(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("a", "59.99", nil), 1)
	checkout, err := NewCheckout("s1", cart, validDetails(), decimal.Zero)
	require.NoError(t, err)

	assert.ErrorIs(t, checkout.Confirm(&PaymentReceipt{OrderNumber: "CYB-000001"}), ErrInvalidTransition)

	require.NoError(t, checkout.Submit())
	assert.Equal(t, StatusProcessing, checkout.Status)
	assert.ErrorIs(t, checkout.Submit(), ErrInvalidTransition)

	require.NoError(t, checkout.Confirm(&PaymentReceipt{OrderNumber: "CYB-000001"}))
	assert.Equal(t, StatusConfirmation, checkout.Status)
	assert.Equal(t, "CYB-000001", checkout.OrderNumber)
	assert.ErrorIs(t, checkout.Confirm(&PaymentReceipt{}), ErrInvalidTransition)
}

func TestSession_SnapshotIsIndependent(t *testing.T) {
	session := NewSession("s1")
	session.Cart.AddItem(testProduct("a", "10", nil), 1)
	session.SignIn(&User{Name: "ada", Email: "ada@example.com"})

	snap := session.Snapshot()
	snap.Cart.AddItem(testProduct("b", "10", nil), 1)
	snap.Auth.User.Name = "grace"
	snap.SignOut()

	assert.Equal(t, 1, session.Cart.ItemCount())
	assert.True(t, session.Auth.Authenticated)
	assert.Equal(t, "ada", session.Auth.User.Name)
}
