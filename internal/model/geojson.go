package model

// GeoJSON types, RFC 7946

// Point a coordinate pair [lng, lat]
type Point [2]float64

// Lng longitude
func (p Point) Lng() float64 { return p[0] }

// Lat latitude
func (p Point) Lat() float64 { return p[1] }

// Geometry GeoJSON geometry object
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// Feature GeoJSON feature
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// FeatureCollection GeoJSON feature collection
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection creates an empty collection
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: []Feature{},
	}
}

// AddFeature appends a feature
func (fc *FeatureCollection) AddFeature(f Feature) {
	fc.Features = append(fc.Features, f)
}

// NewPointFeature creates a point feature
func NewPointFeature(lng, lat float64, props map[string]interface{}) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: Point{lng, lat},
		},
		Properties: props,
	}
}

// NewPolygonFeature creates a polygon feature
func NewPolygonFeature(coordinates [][]Point, props map[string]interface{}) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Polygon",
			Coordinates: coordinates,
		},
		Properties: props,
	}
}
