package model

import (
	"errors"
	"fmt"
	"math"
)

// CategoryWeight one (category, weight) pair
type CategoryWeight struct {
	Category string  `json:"category" yaml:"name"`
	Weight   float64 `json:"weight" yaml:"weight"`
}

// ErrEmptyWeightTable is returned when a table has no entries.
var ErrEmptyWeightTable = errors.New("weight table is empty")

// CategoryWeightTable is an ordered, immutable category -> weight mapping.
// It decides which categories are scored; anything else is ignored.
type CategoryWeightTable struct {
	entries []CategoryWeight
	index   map[string]int
}

// NewCategoryWeightTable validates entries and builds a table.
// Keys must be non-empty and unique, weights finite and non-negative.
func NewCategoryWeightTable(entries []CategoryWeight) (*CategoryWeightTable, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyWeightTable
	}

	t := &CategoryWeightTable{
		entries: make([]CategoryWeight, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Category == "" {
			return nil, fmt.Errorf("entry %d: empty category", i)
		}
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
			return nil, fmt.Errorf("category %q: invalid weight %v", e.Category, e.Weight)
		}
		if _, dup := t.index[e.Category]; dup {
			return nil, fmt.Errorf("category %q: duplicate entry", e.Category)
		}
		t.index[e.Category] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// MustCategoryWeightTable is like NewCategoryWeightTable but panics on error.
func MustCategoryWeightTable(entries []CategoryWeight) *CategoryWeightTable {
	t, err := NewCategoryWeightTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Len number of categories
func (t *CategoryWeightTable) Len() int { return len(t.entries) }

// Weight returns the weight of a category and whether it is scored.
func (t *CategoryWeightTable) Weight(category string) (float64, bool) {
	i, ok := t.index[category]
	if !ok {
		return 0, false
	}
	return t.entries[i].Weight, true
}

// Position returns the declaration index of a category, -1 if absent.
func (t *CategoryWeightTable) Position(category string) int {
	if i, ok := t.index[category]; ok {
		return i
	}
	return -1
}

// Entries returns a copy of the entries in declaration order.
func (t *CategoryWeightTable) Entries() []CategoryWeight {
	out := make([]CategoryWeight, len(t.entries))
	copy(out, t.entries)
	return out
}

// Categories returns the category keys in declaration order.
func (t *CategoryWeightTable) Categories() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Category
	}
	return out
}

// DefaultWeights returns the built-in footfall weights.
// Grouped as education, transport, health, retail, services, leisure.
func DefaultWeights() []CategoryWeight {
	return []CategoryWeight{
		{Category: "school", Weight: 0.8},
		{Category: "college", Weight: 1.2},
		{Category: "university", Weight: 1.2},
		{Category: "kindergarten", Weight: 0.5},

		{Category: "bus_station", Weight: 1.0},
		{Category: "bus_stop", Weight: 0.7},
		{Category: "taxi", Weight: 0.4},
		{Category: "parking", Weight: 0.3},

		{Category: "pharmacy", Weight: 0.6},
		{Category: "clinic", Weight: 0.7},
		{Category: "hospital", Weight: 1.0},

		{Category: "supermarket", Weight: 1.0},
		{Category: "mall", Weight: 2.0},
		{Category: "convenience", Weight: 0.6},
		{Category: "department_store", Weight: 1.5},
		{Category: "clothes", Weight: 1.0},
		{Category: "bakery", Weight: 0.8},
		{Category: "beauty", Weight: 0.7},
		{Category: "hairdresser", Weight: 0.6},
		{Category: "marketplace", Weight: 1.8},
		{Category: "jewelry", Weight: 1.0},

		{Category: "bank", Weight: 0.6},
		{Category: "atm", Weight: 0.2},
		{Category: "post_office", Weight: 0.4},
		{Category: "internet_cafe", Weight: 0.3},

		{Category: "cinema", Weight: 1.5},
		{Category: "theatre", Weight: 1.2},
		{Category: "museum", Weight: 1.2},
		{Category: "place_of_worship", Weight: 0.6},
		{Category: "monument", Weight: 0.6},
		{Category: "viewpoint", Weight: 0.5},

		{Category: "park", Weight: 0.4},
		{Category: "beach_resort", Weight: 1.5},
		{Category: "beach", Weight: 1.2},
		{Category: "zoo", Weight: 1.2},
	}
}

// DefaultWeightTable returns DefaultWeights as a table.
func DefaultWeightTable() *CategoryWeightTable {
	return MustCategoryWeightTable(DefaultWeights())
}
