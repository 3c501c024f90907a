package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yashrajoria/marketplace/pkg/catalog"
)

func TestExtractFacets(t *testing.T) {
	f := catalog.ExtractFacets(mixedProducts())

	assert.Equal(t, []string{"Acme", "Beta", "Gamma"}, f.Brands)
	assert.Equal(t, []string{"Bottle", "Crate", "Drum"}, f.ContainerTypes)
	assert.Equal(t, 250.0, f.PriceCeiling, "fixed selling price wins over base price")
}

func TestExtractFacets_IgnoresInputOrder(t *testing.T) {
	products := mixedProducts()
	reversed := make([]catalog.Product, len(products))
	for i, p := range products {
		reversed[len(products)-1-i] = p
	}

	assert.Equal(t, catalog.ExtractFacets(products), catalog.ExtractFacets(reversed))
}

func TestExtractFacets_DropsEmptyValues(t *testing.T) {
	blank := product("b1", "Blank", 5, "  ")
	blank.ContainerType = " "

	f := catalog.ExtractFacets([]catalog.Product{blank, {ID: "b2", Name: "Bare"}})

	assert.Empty(t, f.Brands)
	assert.Empty(t, f.ContainerTypes)
	assert.Equal(t, 5.0, f.PriceCeiling)
}

func TestExtractFacets_Empty(t *testing.T) {
	f := catalog.ExtractFacets(nil)

	assert.Empty(t, f.Brands)
	assert.Empty(t, f.ContainerTypes)
	assert.Zero(t, f.PriceCeiling)
}

func TestFacets_MatchingBrands(t *testing.T) {
	f := catalog.Facets{Brands: []string{"Acme", "Beta", "Macro"}}

	assert.Equal(t, []string{"Acme", "Macro"}, f.MatchingBrands("AC"))
	assert.Equal(t, []string{"Acme", "Beta", "Macro"}, f.MatchingBrands(""))
	assert.Empty(t, f.MatchingBrands("zzz"))
}
