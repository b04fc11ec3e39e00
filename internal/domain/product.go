package domain

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCategory = errors.New("unknown product category")
)

// Category identifies one of the storefront's product families
type Category string

const (
	CategoryAntivirus       Category = "antivirus"
	CategoryVPN             Category = "vpn"
	CategoryPasswordManager Category = "password-manager"
	CategoryEncryption      Category = "encryption"
	CategoryFirewall        Category = "firewall"
	CategorySecuritySuite   Category = "security-suite"
	CategoryMonitoring      Category = "monitoring"
	CategoryCourses         Category = "courses"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryAntivirus,
	CategoryVPN,
	CategoryPasswordManager,
	CategoryEncryption,
	CategoryFirewall,
	CategorySecuritySuite,
	CategoryMonitoring,
	CategoryCourses,
}

var categoryLabels = map[Category]string{
	CategoryAntivirus:       "Antivirus",
	CategoryVPN:             "VPN",
	CategoryPasswordManager: "Password Manager",
	CategoryEncryption:      "Encryption",
	CategoryFirewall:        "Firewall",
	CategorySecuritySuite:   "Security Suite",
	CategoryMonitoring:      "Monitoring",
	CategoryCourses:         "Courses",
}

// Label returns the human readable category name
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory converts a query string value into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", errors.Wrapf(ErrInvalidCategory, "%q", s)
	}
	return c, nil
}

// LicenseType describes how a product is licensed
type LicenseType string

const (
	LicenseSubscription LicenseType = "subscription"
	LicensePerpetual    LicenseType = "perpetual"
)

// Product represents a catalog entry. Products are loaded once from the
// static catalog and never modified afterwards.
type Product struct {
	ID               string
	Name             string
	Slug             string
	Description      string
	ShortDescription string
	Price            decimal.Decimal
	DiscountPrice    *decimal.Decimal
	Category         Category
	Subcategory      string
	Image            string
	Features         []string
	TechnicalSpecs   map[string]string
	Compatibility    []string
	LicenseType      LicenseType
	LicenseDuration  string
	Downloads        int
	Rating           float64
	ReviewCount      int
	IsFeatured       bool
	IsNewRelease     bool
	ReleaseDate      string
}

// EffectivePrice is the discount price when one is set, otherwise the base price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasDiscount reports whether the product is currently discounted
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice != nil
}
