package model

// POIRecord one retrieved point of interest
type POIRecord struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Category string  `json:"category,omitempty"` // category label, empty when the source has none
	Lng      float64 `json:"lng"`
	Lat      float64 `json:"lat"`
	Source   string  `json:"source,omitempty"` // data source: overpass, postgis, amap
	// Tags raw provider tags, not used for scoring
	Tags map[string]string `json:"tags,omitempty"`
}

// RawPOI one row of the raw POI listing
type RawPOI struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// RawPOIs returns the category/name rows, dropping records that lack either field.
func RawPOIs(records []POIRecord) []RawPOI {
	rows := make([]RawPOI, 0, len(records))
	for _, r := range records {
		if r.Category == "" || r.Name == "" {
			continue
		}
		rows = append(rows, RawPOI{Category: r.Category, Name: r.Name})
	}
	return rows
}

// POIsAsGeoJSON converts POI records to a FeatureCollection
func POIsAsGeoJSON(records []POIRecord) *FeatureCollection {
	fc := NewFeatureCollection()

	for _, poi := range records {
		fc.AddFeature(NewPointFeature(poi.Lng, poi.Lat, map[string]interface{}{
			"id":       poi.ID,
			"name":     poi.Name,
			"category": poi.Category,
			"type":     "poi",
			"source":   poi.Source,
		}))
	}

	return fc
}
