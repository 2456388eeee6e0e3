package model

import "fmt"

// RadiusBounds allowed search radius range, meters
type RadiusBounds struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
	Step    int `json:"step"`
}

// DefaultRadiusBounds 100-2000 m, 500 m default, 100 m step
func DefaultRadiusBounds() RadiusBounds {
	return RadiusBounds{Min: 100, Max: 2000, Default: 500, Step: 100}
}

// Clamp returns radius forced into the range; 0 selects the default.
func (b RadiusBounds) Clamp(radius int) int {
	if radius == 0 {
		radius = b.Default
	}
	if radius < b.Min {
		return b.Min
	}
	if radius > b.Max {
		return b.Max
	}
	return radius
}

// AnalysisRequest location analysis request
type AnalysisRequest struct {
	// selected point
	Lat float64 `json:"lat" binding:"latitude"`
	Lng float64 `json:"lng" binding:"longitude"`
	// search radius in meters, 0 for the default
	Radius int `json:"radius"`
	// also return the POIs found
	IncludePOIs bool `json:"include_pois"`
}

// Normalize clamps the radius and checks the coordinates
func (r *AnalysisRequest) Normalize(bounds RadiusBounds) error {
	if err := r.Location().Validate(); err != nil {
		return err
	}
	r.Radius = bounds.Clamp(r.Radius)
	return nil
}

// Location the selected point
func (r *AnalysisRequest) Location() Location {
	return Location{Lat: r.Lat, Lng: r.Lng}
}

// Area the search area of the request
func (r *AnalysisRequest) Area() SearchArea {
	return SearchArea{Center: r.Location(), Radius: r.Radius}
}

// AnalysisResult footfall analysis of one location
type AnalysisResult struct {
	Origin     Point                    `json:"origin"`
	Radius     int                      `json:"radius"`
	TotalScore float64                  `json:"total_score"`
	Breakdown  []CategoryBreakdownEntry `json:"breakdown"`
	// POIs returned by the provider, scored or not
	POICount int `json:"poi_count"`
	// circle and origin for map display
	SearchArea *FeatureCollection `json:"search_area"`
	POIs       *FeatureCollection `json:"pois,omitempty"`
	RawPOIs    []RawPOI           `json:"raw_pois,omitempty"`
	Provider   string             `json:"provider"`
	Summary    string             `json:"summary"`
}

// ScoreSummary the one-line headline of an analysis
func ScoreSummary(score float64, radius int) string {
	return fmt.Sprintf("Footfall Score: %v (within %d meters)", score, radius)
}
