package domain

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidTransition   = errors.New("invalid checkout state transition")
	ErrMissingCheckoutInfo = errors.New("checkout details are incomplete")
	ErrInvalidEmail        = errors.New("email address is invalid")
)

// CheckoutStatus is the stage of a checkout
type CheckoutStatus string

const (
	StatusDetails      CheckoutStatus = "details"
	StatusProcessing   CheckoutStatus = "processing"
	StatusConfirmation CheckoutStatus = "confirmation"
)

// CheckoutDetails is the billing and card information submitted by the customer
type CheckoutDetails struct {
	Name       string
	Email      string
	Address    string
	City       string
	Country    string
	Zip        string
	CardName   string
	CardNumber string
	CardExpiry string
	CardCVC    string
}

// Validate checks that every field is present and the email is well formed
func (d CheckoutDetails) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", d.Name},
		{"email", d.Email},
		{"address", d.Address},
		{"city", d.City},
		{"country", d.Country},
		{"zip", d.Zip},
		{"card_name", d.CardName},
		{"card_number", d.CardNumber},
		{"card_expiry", d.CardExpiry},
		{"card_cvc", d.CardCVC},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return errors.Wrapf(ErrMissingCheckoutInfo, "%s is required", f.name)
		}
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// CardLast4 returns the last four digits of the card number
func (d CheckoutDetails) CardLast4() string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, d.CardNumber)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// ChargeRequest is what a PaymentGateway is asked to collect
type ChargeRequest struct {
	CheckoutID string
	Amount     decimal.Decimal
	CardName   string
	CardLast4  string
	Email      string
}

// PaymentReceipt is returned by a successful charge
type PaymentReceipt struct {
	OrderNumber string
	ChargedAt   time.Time
}

// PaymentGateway collects payment for a checkout
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*PaymentReceipt, error)
}

// Checkout is a snapshot of a cart moving through details, processing and
// confirmation. Card data other than the last four digits is never kept.
type Checkout struct {
	ID          string
	SessionID   string
	Status      CheckoutStatus
	Items       []CartEntry
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Name        string
	Email       string
	Address     string
	City        string
	Country     string
	Zip         string
	CardLast4   string
	OrderNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCheckout snapshots cart into a checkout in the details stage
func NewCheckout(sessionID string, cart *Cart, details CheckoutDetails, taxRate decimal.Decimal) (*Checkout, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}

	subtotal := cart.Total()
	tax := subtotal.Mul(taxRate).Round(2)
	now := time.Now()

	return &Checkout{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Status:    StatusDetails,
		Items:     cart.Entries(),
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		Name:      details.Name,
		Email:     details.Email,
		Address:   details.Address,
		City:      details.City,
		Country:   details.Country,
		Zip:       details.Zip,
		CardLast4: details.CardLast4(),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Submit moves the checkout from details to processing
func (c *Checkout) Submit() error {
	if c.Status != StatusDetails {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", c.Status, StatusProcessing)
	}
	c.Status = StatusProcessing
	c.UpdatedAt = time.Now()
	return nil
}

// Confirm moves the checkout from processing to confirmation
func (c *Checkout) Confirm(receipt *PaymentReceipt) error {
	if c.Status != StatusProcessing {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", c.Status, StatusConfirmation)
	}
	c.Status = StatusConfirmation
	c.OrderNumber = receipt.OrderNumber
	c.UpdatedAt = time.Now()
	return nil
}

// ItemCount sums quantities across the snapshot entries
func (c *Checkout) ItemCount() int {
	n := 0
	for _, e := range c.Items {
		n += e.Quantity
	}
	return n
}
