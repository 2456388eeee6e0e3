package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryWeightTable(t *testing.T) {
	t.Run("keeps declaration order", func(t *testing.T) {
		table, err := NewCategoryWeightTable([]CategoryWeight{
			{Category: "mall", Weight: 2},
			{Category: "atm", Weight: 0.2},
			{Category: "school", Weight: 0.8},
		})
		require.NoError(t, err)

		assert.Equal(t, 3, table.Len())
		assert.Equal(t, []string{"mall", "atm", "school"}, table.Categories())
		assert.Equal(t, 1, table.Position("atm"))
		assert.Equal(t, -1, table.Position("bank"))

		w, ok := table.Weight("school")
		assert.True(t, ok)
		assert.Equal(t, 0.8, w)
		_, ok = table.Weight("School")
		assert.False(t, ok)
	})

	t.Run("rejects invalid tables", func(t *testing.T) {
		cases := map[string][]CategoryWeight{
			"empty":     nil,
			"blank key": {{Category: "", Weight: 1}},
			"negative":  {{Category: "mall", Weight: -1}},
			"nan":       {{Category: "mall", Weight: math.NaN()}},
			"inf":       {{Category: "mall", Weight: math.Inf(1)}},
			"duplicate": {{Category: "mall", Weight: 1}, {Category: "mall", Weight: 2}},
		}
		for name, entries := range cases {
			_, err := NewCategoryWeightTable(entries)
			assert.Error(t, err, name)
		}
		_, err := NewCategoryWeightTable(nil)
		assert.ErrorIs(t, err, ErrEmptyWeightTable)
	})

	t.Run("entries are copies", func(t *testing.T) {
		src := []CategoryWeight{{Category: "mall", Weight: 2}}
		table := MustCategoryWeightTable(src)
		src[0].Weight = 99

		entries := table.Entries()
		entries[0].Weight = 42

		w, _ := table.Weight("mall")
		assert.Equal(t, 2.0, w)
	})
}

func TestDefaultWeights(t *testing.T) {
	table := DefaultWeightTable()

	assert.Equal(t, 35, table.Len())
	assert.Equal(t, "school", table.Categories()[0])
	assert.Equal(t, "zoo", table.Categories()[34])

	w, ok := table.Weight("mall")
	assert.True(t, ok)
	assert.Equal(t, 2.0, w)
	w, _ = table.Weight("marketplace")
	assert.Equal(t, 1.8, w)
}

func TestRadiusBounds_Clamp(t *testing.T) {
	b := DefaultRadiusBounds()

	assert.Equal(t, 500, b.Clamp(0))
	assert.Equal(t, 100, b.Clamp(5))
	assert.Equal(t, 100, b.Clamp(-300))
	assert.Equal(t, 2000, b.Clamp(5000))
	assert.Equal(t, 750, b.Clamp(750))
}

func TestAnalysisRequest_Normalize(t *testing.T) {
	req := AnalysisRequest{Lat: 11.936, Lng: 79.835}
	require.NoError(t, req.Normalize(DefaultRadiusBounds()))
	assert.Equal(t, 500, req.Radius)
	assert.Equal(t, SearchArea{Center: Location{Lat: 11.936, Lng: 79.835}, Radius: 500}, req.Area())

	bad := AnalysisRequest{Lat: 95, Lng: 10}
	assert.Error(t, bad.Normalize(DefaultRadiusBounds()))

	bad = AnalysisRequest{Lat: 10, Lng: -181}
	assert.Error(t, bad.Normalize(DefaultRadiusBounds()))
}

func TestSearchArea_Ring(t *testing.T) {
	area := SearchArea{Center: Location{Lat: 11.936, Lng: 79.835}, Radius: 500}

	ring := area.Ring()
	require.Len(t, ring, circleSegments+1)
	assert.Equal(t, ring[0], ring[len(ring)-1])

	for _, p := range ring {
		d := DistanceMeters(area.Center, Location{Lat: p.Lat(), Lng: p.Lng()})
		assert.InDelta(t, 500, d, 0.5)
	}
}

func TestSearchArea_AsGeoJSON(t *testing.T) {
	fc := SearchArea{Center: Location{Lat: 1, Lng: 2}, Radius: 300}.AsGeoJSON()

	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Polygon", fc.Features[0].Geometry.Type)
	assert.Equal(t, 300, fc.Features[0].Properties["radius"])
	assert.Equal(t, "Point", fc.Features[1].Geometry.Type)
	assert.Equal(t, Point{2, 1}, fc.Features[1].Geometry.Coordinates)
}

func TestRawPOIs(t *testing.T) {
	rows := RawPOIs([]POIRecord{
		{Category: "bank", Name: "State Bank"},
		{Category: "bank"},
		{Name: "Unnamed shop"},
		{Category: "cafe", Name: "Le Cafe"},
	})

	assert.Equal(t, []RawPOI{
		{Category: "bank", Name: "State Bank"},
		{Category: "cafe", Name: "Le Cafe"},
	}, rows)
}

func TestPOIsAsGeoJSON(t *testing.T) {
	fc := POIsAsGeoJSON([]POIRecord{{ID: "node/1", Name: "Mall", Category: "mall", Lng: 79.8, Lat: 11.9, Source: "overpass"}})

	require.Len(t, fc.Features, 1)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Equal(t, "mall", fc.Features[0].Properties["category"])
	assert.Equal(t, Point{79.8, 11.9}, fc.Features[0].Geometry.Coordinates)
}

func TestScoreSummary(t *testing.T) {
	assert.Equal(t, "Footfall Score: 3.6 (within 500 meters)", ScoreSummary(3.6, 500))
	assert.Equal(t, "Footfall Score: 0 (within 100 meters)", ScoreSummary(0, 100))
}
