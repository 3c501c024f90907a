package catalog

import "strings"

// Pricing holds the tiered price fields of a listing. A fixed selling price,
// when present, overrides the base price.
type Pricing struct {
	FixedSellingPrice *float64 `json:"fixed_selling_price,omitempty" bson:"fixed_selling_price,omitempty"`
	BasePrice         *float64 `json:"base_price,omitempty" bson:"base_price,omitempty"`
}

// TradeShopping groups the trade attributes a seller fills in for a listing.
type TradeShopping struct {
	BrandName string `json:"brand_name,omitempty" bson:"brand_name,omitempty"`
}

// Product is a catalog listing as supplied by the product source.
// The filter engine only ever reads products.
type Product struct {
	ID            string         `json:"id" bson:"_id"`
	Name          string         `json:"name" bson:"name"`
	Pricing       Pricing        `json:"pricing" bson:"pricing"`
	MOQ           *float64       `json:"moq,omitempty" bson:"moq,omitempty"`
	TradeShopping *TradeShopping `json:"trade_shopping,omitempty" bson:"trade_shopping,omitempty"`
	ContainerType string         `json:"container_type,omitempty" bson:"container_type,omitempty"`
	Tags          []string       `json:"tags,omitempty" bson:"tags,omitempty"`
	IsNewArrival  bool           `json:"is_new_arrival" bson:"is_new_arrival"`
	SellerID      string         `json:"seller_id" bson:"seller_id"`
	CategoryIDs   []string       `json:"category_ids,omitempty" bson:"category_ids,omitempty"`
}

// EffectivePrice applies the tiered fallback: fixed selling price, then base
// price, then 0.
func (p Product) EffectivePrice() float64 {
	if p.Pricing.FixedSellingPrice != nil {
		return *p.Pricing.FixedSellingPrice
	}
	if p.Pricing.BasePrice != nil {
		return *p.Pricing.BasePrice
	}
	return 0
}

// Brand returns the trimmed brand name or "" when the trade attributes are
// absent. Facets and the evaluator both read brands through here.
func (p Product) Brand() string {
	if p.TradeShopping == nil {
		return ""
	}
	return strings.TrimSpace(p.TradeShopping.BrandName)
}

// ContainerTypeName returns the trimmed container type.
func (p Product) ContainerTypeName() string {
	return strings.TrimSpace(p.ContainerType)
}

// Float returns a pointer to v. Handy for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
