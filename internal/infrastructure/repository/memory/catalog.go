package memory

import (
	_ "embed"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/shopspring/decimal"
)

//go:embed catalog.json
var catalogJSON []byte

// catalogRecord is the on-disk shape of a catalog entry
type catalogRecord struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"shortDescription"`
	Price            decimal.Decimal   `json:"price"`
	DiscountPrice    *decimal.Decimal  `json:"discountPrice"`
	Category         string            `json:"category"`
	Subcategory      string            `json:"subcategory"`
	Image            string            `json:"image"`
	Features         []string          `json:"features"`
	TechnicalSpecs   map[string]string `json:"technicalSpecs"`
	Compatibility    []string          `json:"compatibility"`
	LicenseType      string            `json:"licenseType"`
	LicenseDuration  string            `json:"licenseDuration"`
	Downloads        int               `json:"downloads"`
	Rating           float64           `json:"rating"`
	ReviewCount      int               `json:"reviewCount"`
	IsFeatured       bool              `json:"isFeatured"`
	IsNewRelease     bool              `json:"isNewRelease"`
	ReleaseDate      string            `json:"releaseDate"`
}

// DefaultCatalog decodes the compiled-in product catalog
func DefaultCatalog() ([]*domain.Product, error) {
	return ParseCatalog(catalogJSON)
}

// ParseCatalog decodes a JSON catalog, preserving record order
func ParseCatalog(data []byte) ([]*domain.Product, error) {
	var records []catalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	seen := make(map[string]struct{}, len(records))
	products := make([]*domain.Product, 0, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			return nil, errors.Errorf("catalog entry %d has no id", i)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, errors.Errorf("duplicate catalog id %q", rec.ID)
		}
		seen[rec.ID] = struct{}{}

		category, err := domain.ParseCategory(rec.Category)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog entry %q", rec.ID)
		}

		license := domain.LicenseType(rec.LicenseType)
		if license != domain.LicenseSubscription && license != domain.LicensePerpetual {
			return nil, errors.Errorf("catalog entry %q has unknown license type %q", rec.ID, rec.LicenseType)
		}

		products = append(products, &domain.Product{
			ID:               rec.ID,
			Name:             rec.Name,
			Slug:             rec.Slug,
			Description:      rec.Description,
			ShortDescription: rec.ShortDescription,
			Price:            rec.Price,
			DiscountPrice:    rec.DiscountPrice,
			Category:         category,
			Subcategory:      rec.Subcategory,
			Image:            rec.Image,
			Features:         rec.Features,
			TechnicalSpecs:   rec.TechnicalSpecs,
			Compatibility:    rec.Compatibility,
			LicenseType:      license,
			LicenseDuration:  rec.LicenseDuration,
			Downloads:        rec.Downloads,
			Rating:           rec.Rating,
			ReviewCount:      rec.ReviewCount,
			IsFeatured:       rec.IsFeatured,
			IsNewRelease:     rec.IsNewRelease,
			ReleaseDate:      rec.ReleaseDate,
		})
	}

	return products, nil
}
