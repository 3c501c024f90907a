package catalog_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/marketplace/pkg/catalog"
)

func TestStore_DefaultState(t *testing.T) {
	s := catalog.NewStore(750)
	c := s.State()

	assert.Equal(t, "", c.ProductName)
	assert.Equal(t, 0.0, c.MinPrice)
	assert.Equal(t, 750.0, c.MaxPrice)
	assert.Nil(t, c.MinMOQ)
	assert.Nil(t, c.MaxMOQ)
	assert.Empty(t, c.SelectedBrands())
	assert.Empty(t, c.SelectedContainerTypes())
	assert.Empty(t, c.ActiveTags())
	assert.Empty(t, c.InvalidRanges())
}

func TestStore_SnapshotsAreImmutable(t *testing.T) {
	s := catalog.NewStore(1000)

	first := s.Dispatch(catalog.ToggleBrand{Brand: "Acme", Selected: true})
	second := s.Dispatch(catalog.ToggleBrand{Brand: "Beta", Selected: true})
	third := s.Dispatch(catalog.ToggleBrand{Brand: "Acme", Selected: false})

	assert.Equal(t, []string{"Acme"}, first.SelectedBrands())
	assert.Equal(t, []string{"Acme", "Beta"}, second.SelectedBrands())
	assert.Equal(t, []string{"Beta"}, third.SelectedBrands())
}

func TestReduce_DoesNotTouchInput(t *testing.T) {
	in := catalog.DefaultCriteria(100)
	in, _ = catalog.Reduce(in, 100, catalog.SetMinMOQ(catalog.Float(5)))

	out, _ := catalog.Reduce(in, 100, catalog.SetMinMOQ(catalog.Float(9)))

	assert.Equal(t, 5.0, *in.MinMOQ)
	assert.Equal(t, 9.0, *out.MinMOQ)
}

func TestStore_SingleBoundEditsClamp(t *testing.T) {
	s := catalog.NewStore(1000)

	c := s.Dispatch(catalog.SetMinPrice(1500))
	assert.Equal(t, 1000.0, c.MinPrice)

	c = s.Dispatch(catalog.SetMaxPrice(200))
	assert.Equal(t, 1000.0, c.MaxPrice, "max may not drop below min")

	c = s.Dispatch(catalog.SetMinPrice(-10))
	assert.Equal(t, 0.0, c.MinPrice)

	c = s.Dispatch(catalog.SetMaxPrice(200))
	assert.Equal(t, 200.0, c.MaxPrice)

	c = s.Dispatch(catalog.SetMaxMOQ(catalog.Float(20)))
	c = s.Dispatch(catalog.SetMinMOQ(catalog.Float(50)))
	assert.Equal(t, 20.0, *c.MinMOQ)

	c = s.Dispatch(catalog.SetMaxMOQ(catalog.Float(5)))
	assert.Equal(t, 20.0, *c.MaxMOQ)
	assert.Empty(t, c.InvalidRanges())
}

func TestStore_PriceRangeIsStoredVerbatim(t *testing.T) {
	s := catalog.NewStore(1000)

	c := s.Dispatch(catalog.SetPriceRange{Min: 500, Max: 100})

	assert.Equal(t, 500.0, c.MinPrice)
	assert.Equal(t, 100.0, c.MaxPrice)
}

func TestStore_PriceBoundsKeepMissingSideAndDoNotClamp(t *testing.T) {
	s := catalog.NewStore(120)

	c := s.Dispatch(catalog.SetPriceBounds{Min: catalog.Float(500)})

	assert.Equal(t, 500.0, c.MinPrice)
	assert.Equal(t, 120.0, c.MaxPrice)
	assert.Equal(t, []catalog.RangeIssue{catalog.PriceRangeInverted}, c.InvalidRanges())

	c = s.Dispatch(catalog.SetPriceBounds{Max: catalog.Float(900)})
	assert.Equal(t, 500.0, c.MinPrice)
	assert.Equal(t, 900.0, c.MaxPrice)
}

func TestStore_MOQRangeIsStoredVerbatim(t *testing.T) {
	s := catalog.NewStore(1000)

	c := s.Dispatch(catalog.SetMOQRange{Min: catalog.Float(50), Max: catalog.Float(10)})
	require.NotNil(t, c.MinMOQ)
	require.NotNil(t, c.MaxMOQ)
	assert.Equal(t, 50.0, *c.MinMOQ)
	assert.Equal(t, 10.0, *c.MaxMOQ)

	c = s.Dispatch(catalog.SetMOQRange{Max: catalog.Float(10)})
	assert.Nil(t, c.MinMOQ)
	assert.Equal(t, 10.0, *c.MaxMOQ)
}

func TestStore_ClearResetsEverything(t *testing.T) {
	s := catalog.NewStore(400)
	s.Dispatch(catalog.SetProductName("rod"))
	s.Dispatch(catalog.SetBrandSearchTerm("ac"))
	s.Dispatch(catalog.SetPriceRange{Min: 10, Max: 20})
	s.Dispatch(catalog.SetMinMOQ(catalog.Float(3)))
	s.Dispatch(catalog.SetMaxMOQ(catalog.Float(30)))
	s.Dispatch(catalog.ToggleBrand{Brand: "Acme", Selected: true})
	s.Dispatch(catalog.ToggleContainerType{ContainerType: "Drum", Selected: true})
	s.Dispatch(catalog.ToggleTag{Tag: "trending", Enabled: true})

	c := s.Dispatch(catalog.Clear{})

	assert.Equal(t, catalog.DefaultCriteria(400).ProductName, c.ProductName)
	assert.Equal(t, "", c.BrandSearchTerm)
	assert.Equal(t, 0.0, c.MinPrice)
	assert.Equal(t, 400.0, c.MaxPrice)
	assert.Nil(t, c.MinMOQ)
	assert.Nil(t, c.MaxMOQ)
	assert.Empty(t, c.SelectedBrands())
	assert.Empty(t, c.SelectedContainerTypes())
	assert.False(t, c.TagEnabled("trending"))
}

func TestStore_CeilingFollowsUntouchedMax(t *testing.T) {
	s := catalog.NewStore(1000)

	c := s.Dispatch(catalog.SetCeiling{Ceiling: 250})
	assert.Equal(t, 250.0, c.MaxPrice)
	assert.Equal(t, 250.0, s.Ceiling())

	s.Dispatch(catalog.SetMaxPrice(200))
	c = s.Dispatch(catalog.SetCeiling{Ceiling: 300})
	assert.Equal(t, 200.0, c.MaxPrice, "narrowed bound is kept")

	c = s.Dispatch(catalog.Clear{})
	assert.Equal(t, 300.0, c.MaxPrice)
}

func TestStore_SubscribersSeeEverySnapshotInOrder(t *testing.T) {
	s := catalog.NewStore(1000)
	var seen []string
	s.Subscribe(func(c catalog.Criteria) { seen = append(seen, c.ProductName) })

	s.Dispatch(catalog.SetProductName("a"))
	s.Dispatch(catalog.SetProductName("ab"))
	s.Dispatch(catalog.SetProductName("abc"))

	assert.Equal(t, []string{"a", "ab", "abc"}, seen)
}

func TestStore_ConcurrentDispatchKeepsEveryToggle(t *testing.T) {
	s := catalog.NewStore(1000)
	brands := []string{"A", "B", "C", "D", "E", "F", "G", "H"}

	var wg sync.WaitGroup
	for _, b := range brands {
		wg.Add(1)
		go func(b string) {
			defer wg.Done()
			s.Dispatch(catalog.ToggleBrand{Brand: b, Selected: true})
		}(b)
	}
	wg.Wait()

	assert.Equal(t, brands, s.State().SelectedBrands())
}

func TestCriteria_MarshalJSON(t *testing.T) {
	c := apply(100,
		catalog.ToggleBrand{Brand: "Beta", Selected: true},
		catalog.ToggleBrand{Brand: "Acme", Selected: true},
		catalog.ToggleTag{Tag: "bulk", Enabled: true},
	)

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []interface{}{"Acme", "Beta"}, decoded["selected_brands"])
	assert.Equal(t, []interface{}{"bulk"}, decoded["active_tags"])
	assert.Equal(t, 100.0, decoded["max_price"])
}
