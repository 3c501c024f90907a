package models

import (
	"github.com/yashrajoria/marketplace/pkg/catalog"
	"github.com/yashrajoria/marketplace/pkg/products"
)

// FilterQuery is the query string of GET /categories/:slug/products.
// Repeated keys (brand=A&brand=B) select several values.
type FilterQuery struct {
	Name           string   `form:"name" validate:"max=200"`
	MinPrice       *float64 `form:"min_price" validate:"omitempty,gte=0"`
	MaxPrice       *float64 `form:"max_price" validate:"omitempty,gte=0"`
	MinMOQ         *float64 `form:"min_moq" validate:"omitempty,gte=0"`
	MaxMOQ         *float64 `form:"max_moq" validate:"omitempty,gte=0"`
	Brands         []string `form:"brand" validate:"dive,max=100"`
	ContainerTypes []string `form:"container_type" validate:"dive,max=100"`
	Tags           []string `form:"tag" validate:"dive,max=50"`
	BrandSearch    string   `form:"brand_search" validate:"max=100"`
}

// Actions translates the query into store actions, in the order a shopper
// would apply them. Bounds are applied as range edits without clamping: a
// missing price bound keeps the default, and an inverted pair is kept as
// given and matches nothing.
func (q FilterQuery) Actions() []catalog.Action {
	var actions []catalog.Action
	if q.Name != "" {
		actions = append(actions, catalog.SetProductName(q.Name))
	}
	if q.BrandSearch != "" {
		actions = append(actions, catalog.SetBrandSearchTerm(q.BrandSearch))
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		actions = append(actions, catalog.SetPriceBounds{Min: q.MinPrice, Max: q.MaxPrice})
	}
	if q.MinMOQ != nil || q.MaxMOQ != nil {
		actions = append(actions, catalog.SetMOQRange{Min: q.MinMOQ, Max: q.MaxMOQ})
	}

	for _, b := range q.Brands {
		actions = append(actions, catalog.ToggleBrand{Brand: b, Selected: true})
	}
	for _, ct := range q.ContainerTypes {
		actions = append(actions, catalog.ToggleContainerType{ContainerType: ct, Selected: true})
	}
	for _, t := range q.Tags {
		actions = append(actions, catalog.ToggleTag{Tag: t, Enabled: true})
	}
	return actions
}

// BrowseResponse is the filtered view of one subcategory.
type BrowseResponse struct {
	Products      []catalog.Product    `json:"products"`
	Facets        catalog.Facets       `json:"facets"`
	VisibleBrands []string             `json:"visible_brands"`
	Criteria      catalog.Criteria     `json:"criteria"`
	InvalidRanges []catalog.RangeIssue `json:"invalid_ranges"`
	Total         int                  `json:"total"`
}

// FacetsResponse is returned by GET /categories/:slug/facets.
type FacetsResponse struct {
	Facets        catalog.Facets `json:"facets"`
	VisibleBrands []string       `json:"visible_brands"`
}

// TreeResponse is returned by GET /categories/:slug.
type TreeResponse struct {
	Category      products.Category   `json:"category"`
	Subcategories []products.Category `json:"subcategories"`
	Products      []catalog.Product   `json:"products"`
}

// Catalog change events that invalidate cached trees.
const (
	EventProductUpdated  = "product.updated"
	EventCategoryUpdated = "category.updated"
)

// ChangeEvent is the body of a catalog change message.
type ChangeEvent struct {
	Type       string `json:"type"`
	ProductID  string `json:"product_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
}
