package catalog

import (
	"sort"
	"strings"
)

// Facets are the selectable filter values observed in a product collection.
type Facets struct {
	Brands         []string `json:"brands"`
	ContainerTypes []string `json:"container_types"`
	PriceCeiling   float64  `json:"price_ceiling"`
}

// ExtractFacets derives brand and container-type options and the price
// ceiling from products. Output is sorted, so it does not depend on input
// order.
func ExtractFacets(products []Product) Facets {
	brands := make(map[string]struct{})
	containers := make(map[string]struct{})
	var ceiling float64

	for _, p := range products {
		if b := p.Brand(); b != "" {
			brands[b] = struct{}{}
		}
		if ct := p.ContainerTypeName(); ct != "" {
			containers[ct] = struct{}{}
		}
		if price := p.EffectivePrice(); price > ceiling {
			ceiling = price
		}
	}

	return Facets{
		Brands:         sortedKeys(brands),
		ContainerTypes: sortedKeys(containers),
		PriceCeiling:   ceiling,
	}
}

// MatchingBrands returns the brands containing term, case-insensitively.
// An empty term returns every brand.
func (f Facets) MatchingBrands(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]string(nil), f.Brands...)
	}
	out := make([]string, 0, len(f.Brands))
	for _, b := range f.Brands {
		if strings.Contains(strings.ToLower(b), term) {
			out = append(out, b)
		}
	}
	sort.Strings(out)
	return out
}
