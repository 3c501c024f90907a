package catalog

import "sync"

// View keeps the filtered product list of one subcategory screen in sync with
// its criteria. Filtering is live: every Dispatch and every SetProducts
// recomputes the result before returning.
type View struct {
	store *Store

	mu       sync.RWMutex
	products []Product
	facets   Facets
	filtered []Product
}

// NewView opens a view over products with default criteria. The price
// ceiling is the observed maximum effective price.
func NewView(products []Product) *View {
	v := &View{store: NewStore(DefaultPriceCeiling)}
	v.store.Subscribe(v.refilter)
	v.SetProducts(products)
	return v
}

// SetProducts replaces the collection, re-derives facets and moves the price
// ceiling to the new observed maximum.
func (v *View) SetProducts(products []Product) {
	facets := ExtractFacets(products)

	v.mu.Lock()
	v.products = append([]Product(nil), products...)
	v.facets = facets
	v.mu.Unlock()

	// the subscriber refilters against the new collection
	v.store.Dispatch(SetCeiling{Ceiling: ceilingFor(facets)})
}

// Dispatch forwards a to the store and returns the new criteria.
func (v *View) Dispatch(a Action) Criteria {
	return v.store.Dispatch(a)
}

// Criteria returns the current criteria snapshot.
func (v *View) Criteria() Criteria {
	return v.store.State()
}

// Products returns the filtered products.
func (v *View) Products() []Product {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Product(nil), v.filtered...)
}

// Facets returns the facets of the full collection.
func (v *View) Facets() Facets {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.facets
}

// VisibleBrands returns the brand facet narrowed by the brand search term.
func (v *View) VisibleBrands() []string {
	return v.Facets().MatchingBrands(v.Criteria().BrandSearchTerm)
}

func (v *View) refilter(c Criteria) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filtered = Filter(v.products, c)
}

func ceilingFor(f Facets) float64 {
	if f.PriceCeiling > 0 {
		return f.PriceCeiling
	}
	return DefaultPriceCeiling
}
