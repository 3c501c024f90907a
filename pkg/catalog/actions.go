package catalog

import "strings"

// Field identifies a single criteria field for SetField.
type Field string

const (
	FieldProductName     Field = "productName"
	FieldBrandSearchTerm Field = "brandSearchTerm"
	FieldMinPrice        Field = "minPrice"
	FieldMaxPrice        Field = "maxPrice"
	FieldMinMOQ          Field = "minMOQ"
	FieldMaxMOQ          Field = "maxMOQ"
)

// Action is one of the closed set of criteria transitions.
type Action interface {
	apply(c Criteria, ceiling float64) (Criteria, float64)
}

// SetField overwrites one field. Build it with the Set* constructors.
type SetField struct {
	Field  Field
	text   string
	number *float64
}

// SetProductName filters by case-insensitive name substring.
func SetProductName(name string) SetField {
	return SetField{Field: FieldProductName, text: name}
}

// SetBrandSearchTerm narrows the brand facet list.
func SetBrandSearchTerm(term string) SetField {
	return SetField{Field: FieldBrandSearchTerm, text: term}
}

// SetMinPrice sets the lower price bound.
func SetMinPrice(v float64) SetField {
	return SetField{Field: FieldMinPrice, number: &v}
}

// SetMaxPrice sets the upper price bound.
func SetMaxPrice(v float64) SetField {
	return SetField{Field: FieldMaxPrice, number: &v}
}

// SetMinMOQ sets the lower MOQ bound; nil clears it.
func SetMinMOQ(v *float64) SetField {
	return SetField{Field: FieldMinMOQ, number: cloneFloat(v)}
}

// SetMaxMOQ sets the upper MOQ bound; nil clears it.
func SetMaxMOQ(v *float64) SetField {
	return SetField{Field: FieldMaxMOQ, number: cloneFloat(v)}
}

// Single bounds are clamped against their partner so that a one-field edit
// never inverts a range. SetPriceRange is the only way to store an inverted
// price range.
func (a SetField) apply(c Criteria, ceiling float64) (Criteria, float64) {
	switch a.Field {
	case FieldProductName:
		c.ProductName = a.text
	case FieldBrandSearchTerm:
		c.BrandSearchTerm = a.text
	case FieldMinPrice:
		if a.number == nil {
			break
		}
		c.MinPrice = clamp(nonNegative(*a.number), 0, c.MaxPrice)
	case FieldMaxPrice:
		if a.number == nil {
			break
		}
		v := nonNegative(*a.number)
		if v < c.MinPrice {
			v = c.MinPrice
		}
		c.MaxPrice = v
	case FieldMinMOQ:
		if a.number == nil {
			c.MinMOQ = nil
			break
		}
		v := nonNegative(*a.number)
		if c.MaxMOQ != nil && v > *c.MaxMOQ {
			v = *c.MaxMOQ
		}
		c.MinMOQ = &v
	case FieldMaxMOQ:
		if a.number == nil {
			c.MaxMOQ = nil
			break
		}
		v := nonNegative(*a.number)
		if c.MinMOQ != nil && v < *c.MinMOQ {
			v = *c.MinMOQ
		}
		c.MaxMOQ = &v
	}
	return c, ceiling
}

// SetPriceRange updates both price bounds atomically. Values are stored as
// given; an inverted range matches nothing.
type SetPriceRange struct {
	Min, Max float64
}

func (a SetPriceRange) apply(c Criteria, ceiling float64) (Criteria, float64) {
	c.MinPrice = a.Min
	c.MaxPrice = a.Max
	return c, ceiling
}

// SetPriceBounds updates the price bounds that are non-nil and keeps the
// others. Unlike SetMinPrice and SetMaxPrice nothing is clamped, so a lower
// bound above the current upper bound yields an inverted range.
type SetPriceBounds struct {
	Min, Max *float64
}

func (a SetPriceBounds) apply(c Criteria, ceiling float64) (Criteria, float64) {
	if a.Min != nil {
		c.MinPrice = *a.Min
	}
	if a.Max != nil {
		c.MaxPrice = *a.Max
	}
	return c, ceiling
}

// SetMOQRange replaces both MOQ bounds atomically; nil clears a bound.
// Values are stored as given; an inverted range matches nothing.
type SetMOQRange struct {
	Min, Max *float64
}

func (a SetMOQRange) apply(c Criteria, ceiling float64) (Criteria, float64) {
	c.MinMOQ = cloneFloat(a.Min)
	c.MaxMOQ = cloneFloat(a.Max)
	return c, ceiling
}

// ToggleTag turns one tag on or off.
type ToggleTag struct {
	Tag     string
	Enabled bool
}

func (a ToggleTag) apply(c Criteria, ceiling float64) (Criteria, float64) {
	if c.tags == nil {
		c.tags = make(map[string]bool)
	}
	c.tags[a.Tag] = a.Enabled
	return c, ceiling
}

// ToggleBrand adds or removes a brand from the selection.
type ToggleBrand struct {
	Brand    string
	Selected bool
}

func (a ToggleBrand) apply(c Criteria, ceiling float64) (Criteria, float64) {
	c.brands = toggle(c.brands, a.Brand, a.Selected)
	return c, ceiling
}

// ToggleContainerType adds or removes a container type from the selection.
type ToggleContainerType struct {
	ContainerType string
	Selected      bool
}

func (a ToggleContainerType) apply(c Criteria, ceiling float64) (Criteria, float64) {
	c.containerTypes = toggle(c.containerTypes, a.ContainerType, a.Selected)
	return c, ceiling
}

// Clear resets every field, including the brand search term, to defaults.
type Clear struct{}

func (Clear) apply(_ Criteria, ceiling float64) (Criteria, float64) {
	return DefaultCriteria(ceiling), ceiling
}

// SetCeiling records a new observed price ceiling. An upper price bound that
// was still sitting on the old ceiling moves with it.
type SetCeiling struct {
	Ceiling float64
}

func (a SetCeiling) apply(c Criteria, ceiling float64) (Criteria, float64) {
	next := nonNegative(a.Ceiling)
	if c.MaxPrice == ceiling {
		c.MaxPrice = next
	}
	return c, next
}

func toggle(set map[string]struct{}, key string, on bool) map[string]struct{} {
	key = strings.TrimSpace(key)
	if key == "" {
		return set
	}
	if on {
		if set == nil {
			set = make(map[string]struct{})
		}
		set[key] = struct{}{}
		return set
	}
	delete(set, key)
	return set
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
