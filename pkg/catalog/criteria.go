package catalog

import (
	"encoding/json"
	"sort"
)

// NewArrivalsTag is matched against Product.IsNewArrival instead of the tag set.
const NewArrivalsTag = "newArrivals"

// DefaultPriceCeiling is used when no products have been observed yet.
const DefaultPriceCeiling = 1000

// Criteria is an immutable snapshot of every active filter. Snapshots are
// produced by Reduce and must not be mutated by callers; use the accessor
// methods to read the sets.
type Criteria struct {
	ProductName     string   `json:"product_name"`
	MinPrice        float64  `json:"min_price"`
	MaxPrice        float64  `json:"max_price"`
	MinMOQ          *float64 `json:"min_moq,omitempty"`
	MaxMOQ          *float64 `json:"max_moq,omitempty"`
	BrandSearchTerm string   `json:"brand_search_term"`

	brands         map[string]struct{}
	containerTypes map[string]struct{}
	tags           map[string]bool
}

// DefaultCriteria returns the cleared state for the given price ceiling.
func DefaultCriteria(ceiling float64) Criteria {
	if ceiling < 0 {
		ceiling = 0
	}
	return Criteria{MaxPrice: ceiling}
}

// SelectedBrands returns the selected brands in sorted order.
func (c Criteria) SelectedBrands() []string {
	return sortedKeys(c.brands)
}

// SelectedContainerTypes returns the selected container types in sorted order.
func (c Criteria) SelectedContainerTypes() []string {
	return sortedKeys(c.containerTypes)
}

// ActiveTags returns the names of tags toggled on, sorted.
func (c Criteria) ActiveTags() []string {
	out := make([]string, 0, len(c.tags))
	for name, on := range c.tags {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// TagEnabled reports whether a tag is toggled on.
func (c Criteria) TagEnabled(name string) bool {
	return c.tags[name]
}

// HasBrand reports whether brand is part of the selection.
func (c Criteria) HasBrand(brand string) bool {
	_, ok := c.brands[brand]
	return ok
}

// HasContainerType reports whether t is part of the selection.
func (c Criteria) HasContainerType(t string) bool {
	_, ok := c.containerTypes[t]
	return ok
}

// RangeIssue names a bound pair that is inverted.
type RangeIssue string

const (
	PriceRangeInverted RangeIssue = "price_range_inverted"
	MOQRangeInverted   RangeIssue = "moq_range_inverted"
)

// InvalidRanges lists inverted bound pairs. An inverted pair is a legal state
// that filters every product out; this only lets the display layer say why.
func (c Criteria) InvalidRanges() []RangeIssue {
	var issues []RangeIssue
	if c.MinPrice > c.MaxPrice {
		issues = append(issues, PriceRangeInverted)
	}
	if c.MinMOQ != nil && c.MaxMOQ != nil && *c.MinMOQ > *c.MaxMOQ {
		issues = append(issues, MOQRangeInverted)
	}
	return issues
}

// clone deep-copies the snapshot so a transition never aliases the previous one.
func (c Criteria) clone() Criteria {
	out := c
	out.MinMOQ = cloneFloat(c.MinMOQ)
	out.MaxMOQ = cloneFloat(c.MaxMOQ)
	out.brands = cloneSet(c.brands)
	out.containerTypes = cloneSet(c.containerTypes)
	if c.tags != nil {
		out.tags = make(map[string]bool, len(c.tags))
		for k, v := range c.tags {
			out.tags[k] = v
		}
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneSet(s map[string]struct{}) map[string]struct{} {
	if s == nil {
		return nil
	}
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type criteriaJSON struct {
	ProductName            string   `json:"product_name"`
	MinPrice               float64  `json:"min_price"`
	MaxPrice               float64  `json:"max_price"`
	MinMOQ                 *float64 `json:"min_moq,omitempty"`
	MaxMOQ                 *float64 `json:"max_moq,omitempty"`
	BrandSearchTerm        string   `json:"brand_search_term"`
	SelectedBrands         []string `json:"selected_brands"`
	SelectedContainerTypes []string `json:"selected_container_types"`
	ActiveTags             []string `json:"active_tags"`
}

// MarshalJSON exposes the sets as sorted arrays.
func (c Criteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(criteriaJSON{
		ProductName:            c.ProductName,
		MinPrice:               c.MinPrice,
		MaxPrice:               c.MaxPrice,
		MinMOQ:                 c.MinMOQ,
		MaxMOQ:                 c.MaxMOQ,
		BrandSearchTerm:        c.BrandSearchTerm,
		SelectedBrands:         c.SelectedBrands(),
		SelectedContainerTypes: c.SelectedContainerTypes(),
		ActiveTags:             c.ActiveTags(),
	})
}
