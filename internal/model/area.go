package model

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371008.8

// circleSegments vertices used to approximate the search circle
const circleSegments = 64

// Location WGS84 coordinate
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinate range
func (l Location) Validate() error {
	if math.IsNaN(l.Lat) || l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", l.Lat)
	}
	if math.IsNaN(l.Lng) || l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", l.Lng)
	}
	return nil
}

// SearchArea a circle around the selected point
type SearchArea struct {
	Center Location `json:"center"`
	Radius int      `json:"radius"` // meters
}

// Ring returns a closed ring approximating the circle on a sphere.
func (a SearchArea) Ring() []Point {
	lat1 := a.Center.Lat * math.Pi / 180
	lng1 := a.Center.Lng * math.Pi / 180
	d := float64(a.Radius) / earthRadiusMeters

	ring := make([]Point, 0, circleSegments+1)
	for i := 0; i < circleSegments; i++ {
		bearing := 2 * math.Pi * float64(i) / circleSegments
		lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(bearing))
		lng2 := lng1 + math.Atan2(
			math.Sin(bearing)*math.Sin(d)*math.Cos(lat1),
			math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
		)
		ring = append(ring, Point{normalizeLng(lng2 * 180 / math.Pi), lat2 * 180 / math.Pi})
	}
	ring = append(ring, ring[0])
	return ring
}

// AsGeoJSON returns the circle and its center as a FeatureCollection
func (a SearchArea) AsGeoJSON() *FeatureCollection {
	fc := NewFeatureCollection()
	fc.AddFeature(NewPolygonFeature([][]Point{a.Ring()}, map[string]interface{}{
		"type":    "search_area",
		"radius":  a.Radius,
		"tooltip": fmt.Sprintf("Selected Area (%dm)", a.Radius),
	}))
	fc.AddFeature(NewPointFeature(a.Center.Lng, a.Center.Lat, map[string]interface{}{
		"type": "origin",
	}))
	return fc
}

// DistanceMeters great-circle distance between two locations
func DistanceMeters(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func normalizeLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
