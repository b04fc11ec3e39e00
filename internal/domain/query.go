package domain

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrInvalidSortOrder = errors.New("unknown sort order")
	ErrInvalidFilter    = errors.New("unknown product filter")
)

// SortOrder selects the ordering of a catalog query result
type SortOrder string

const (
	SortNameAsc    SortOrder = "name-asc"
	SortNameDesc   SortOrder = "name-desc"
	SortPriceAsc   SortOrder = "price-asc"
	SortPriceDesc  SortOrder = "price-desc"
	SortRatingDesc SortOrder = "rating-desc"

	DefaultSortOrder = SortRatingDesc
)

// minSearchLength is the shortest search text that filters anything
const minSearchLength = 2

// ParseSortOrder converts a query string value into a SortOrder.
// An empty value selects DefaultSortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return DefaultSortOrder, nil
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return SortOrder(s), nil
	}
	return "", errors.Wrapf(ErrInvalidSortOrder, "%q", s)
}

// Listing filters accepted by ApplyFilter
const (
	FilterFeatured   = "featured"
	FilterNewRelease = "new"
)

// ApplyFilter sets the listing flag named by filter. An empty filter is a no-op.
func (q *ProductQuery) ApplyFilter(filter string) error {
	switch filter {
	case "":
	case FilterFeatured:
		q.Featured = true
	case FilterNewRelease:
		q.NewRelease = true
	default:
		return errors.Wrapf(ErrInvalidFilter, "%q", filter)
	}
	return nil
}

// ProductQuery holds the optional filters and the sort order of a catalog query
type ProductQuery struct {
	Category   Category
	Search     string
	SortBy     SortOrder
	Featured   bool
	NewRelease bool
}

// QueryProducts filters and sorts products. The input slice is not modified.
func QueryProducts(products []*Product, q ProductQuery) []*Product {
	search := normalizeSearch(q.Search)
	fold := cases.Fold()

	result := make([]*Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Featured && !p.IsFeatured {
			continue
		}
		if q.NewRelease && !p.IsNewRelease {
			continue
		}
		if search != "" && !matchesSearch(fold, p, search) {
			continue
		}
		result = append(result, p)
	}

	sortProducts(result, q.SortBy)
	return result
}

// normalizeSearch returns the case-folded search text, or "" when the
// text is too short to filter on. Whitespace counts toward the length.
func normalizeSearch(s string) string {
	if utf8.RuneCountInString(s) < minSearchLength {
		return ""
	}
	return cases.Fold().String(s)
}

func matchesSearch(fold cases.Caser, p *Product, search string) bool {
	for _, field := range []string{p.Name, p.Description, string(p.Category)} {
		if strings.Contains(fold.String(field), search) {
			return true
		}
	}
	return false
}

func sortProducts(products []*Product, order SortOrder) {
	switch order {
	case SortNameAsc, SortNameDesc:
		// Collator keeps internal buffers, one per call
		coll := collate.New(language.English)
		slices.SortStableFunc(products, func(a, b *Product) int {
			c := coll.CompareString(a.Name, b.Name)
			if order == SortNameDesc {
				return -c
			}
			return c
		})
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b *Product) int {
			return a.EffectivePrice().Cmp(b.EffectivePrice())
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b *Product) int {
			return b.EffectivePrice().Cmp(a.EffectivePrice())
		})
	default:
		slices.SortStableFunc(products, func(a, b *Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	}
}

// RelatedProducts returns up to limit products sharing the category of
// product, excluding product itself, in catalog order
func RelatedProducts(products []*Product, product *Product, limit int) []*Product {
	related := make([]*Product, 0, limit)
	for _, p := range products {
		if len(related) >= limit {
			break
		}
		if p.Category == product.Category && p.ID != product.ID {
			related = append(related, p)
		}
	}
	return related
}

// CategoryCount pairs a category with the number of products it holds
type CategoryCount struct {
	Category Category
	Count    int
}

// CountByCategory returns every known category with its product count
func CountByCategory(products []*Product) []CategoryCount {
	counts := make(map[Category]int, len(Categories))
	for _, p := range products {
		counts[p.Category]++
	}

	result := make([]CategoryCount, len(Categories))
	for i, c := range Categories {
		result[i] = CategoryCount{Category: c, Count: counts[c]}
	}
	return result
}
