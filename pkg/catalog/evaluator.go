package catalog

import "strings"

// Matches reports whether p passes every active clause of c. Clauses are
// ANDed; tags are ORed among themselves.
func Matches(p Product, c Criteria) bool {
	return matchesName(p, c) &&
		matchesPrice(p, c) &&
		matchesMOQ(p, c) &&
		matchesBrand(p, c) &&
		matchesTags(p, c) &&
		matchesContainerType(p, c)
}

// Filter returns the products matching c, preserving input order.
func Filter(products []Product, c Criteria) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if Matches(p, c) {
			out = append(out, p)
		}
	}
	return out
}

func matchesName(p Product, c Criteria) bool {
	if c.ProductName == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(c.ProductName))
}

func matchesPrice(p Product, c Criteria) bool {
	if c.MinPrice > c.MaxPrice {
		return false
	}
	price := p.EffectivePrice()
	return price >= c.MinPrice && price <= c.MaxPrice
}

// A product without an MOQ fails any MOQ bound that is set.
func matchesMOQ(p Product, c Criteria) bool {
	if c.MinMOQ == nil && c.MaxMOQ == nil {
		return true
	}
	if p.MOQ == nil {
		return false
	}
	if c.MinMOQ != nil && *p.MOQ < *c.MinMOQ {
		return false
	}
	if c.MaxMOQ != nil && *p.MOQ > *c.MaxMOQ {
		return false
	}
	return true
}

func matchesBrand(p Product, c Criteria) bool {
	if len(c.brands) == 0 {
		return true
	}
	return c.HasBrand(p.Brand())
}

func matchesContainerType(p Product, c Criteria) bool {
	if len(c.containerTypes) == 0 {
		return true
	}
	return c.HasContainerType(p.ContainerTypeName())
}

func matchesTags(p Product, c Criteria) bool {
	active := c.ActiveTags()
	if len(active) == 0 {
		return true
	}
	for _, tag := range active {
		if tag == NewArrivalsTag {
			if p.IsNewArrival {
				return true
			}
			continue
		}
		for _, have := range p.Tags {
			if strings.EqualFold(have, tag) {
				return true
			}
		}
	}
	return false
}
