package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/config"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// AmapName provider name
const AmapName = "amap"

// amapPageSize results per page, API maximum
const amapPageSize = 25

// amapMaxPages the API rejects page numbers above this
const amapMaxPages = 100

// amapConcurrency pages fetched at once
const amapConcurrency = 4

// Amap searches POIs with the Amap (Gaode) place/around API
type Amap struct {
	apiKey   string
	enabled  bool
	baseURL  string
	maxPages int
	client   *http.Client
}

// amapResponse place/around response
type amapResponse struct {
	Status string    `json:"status"`
	Info   string    `json:"info"`
	Count  string    `json:"count"`
	POIs   []amapPOI `json:"pois"`
}

// FlexibleString decodes fields Amap sends either as a string or as an array
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) > 0 {
			*f = FlexibleString(arr[0])
		} else {
			*f = ""
		}
		return nil
	}

	*f = ""
	return nil
}

// amapPOI one Amap POI
type amapPOI struct {
	ID       string         `json:"id"`
	Name     FlexibleString `json:"name"`
	Type     string         `json:"type"`
	TypeCode string         `json:"typecode"`
	Address  FlexibleString `json:"address"`
	Location string         `json:"location"` // "lng,lat"
}

// amapTypeMapping Amap type code -> footfall category
// https://lbs.amap.com/api/webservice/download
var amapTypeMapping = map[string]string{
	// education
	"141201": "university",
	"141202": "school",
	"141203": "school",
	"141204": "kindergarten",
	"141206": "college",

	// transport
	// 150500 subway and 150600 light rail have no table category
	"150400": "bus_station", // long-distance coach station
	"150700": "bus_stop",
	"150702": "bus_stop",
	"150900": "parking",
	"150903": "parking",

	// health
	"090100": "hospital",
	"090101": "hospital",
	"090300": "clinic",
	"090400": "clinic",
	"090601": "pharmacy",
	"090602": "pharmacy",

	// retail
	"060100": "mall",
	"060101": "mall",
	"060102": "mall",
	"060200": "convenience",
	"060202": "convenience",
	"060400": "supermarket",
	"060401": "supermarket",
	"060700": "marketplace",
	"060701": "marketplace",
	"061100": "clothes",
	"061101": "clothes",
	"061205": "jewelry",
	"050501": "bakery",
	"071100": "beauty",
	"071101": "hairdresser",
	"060800": "department_store",

	// services
	"160100": "bank",
	"160300": "atm",
	"070400": "post_office",
	"080308": "internet_cafe",

	// leisure & culture
	"080601": "cinema",
	"080602": "theatre",
	"140100": "museum",
	"110200": "monument",
	"110204": "place_of_worship",
	"110205": "place_of_worship",
	"110206": "place_of_worship",
	"110101": "park",
	"110102": "zoo",
	"110103": "park",
	"110209": "viewpoint",
	"110210": "beach",
	"110105": "beach_resort",
}

// amapSearchTypes the type groups searched
var amapSearchTypes = []string{
	"050000", // food
	"060000", // shopping
	"070000", // daily services
	"080000", // sports & entertainment
	"090000", // medical
	"110000", // scenic spots
	"140000", // science & education
	"150000", // transport
	"160000", // finance
}

// NewAmap creates the Amap provider
func NewAmap(cfg config.AmapConfig) *Amap {
	return &Amap{
		apiKey:   cfg.Key,
		enabled:  cfg.Enabled,
		baseURL:  cfg.BaseURL,
		maxPages: cfg.MaxPages,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name provider name
func (s *Amap) Name() string { return AmapName }

// IsEnabled whether a key is configured
func (s *Amap) IsEnabled() bool {
	return s.enabled && s.apiKey != ""
}

// FetchPOIs searches around the center; the first page gives the total count
// and remaining pages are fetched concurrently. A result set larger than the
// page limit fails as incomplete rather than being truncated.
func (s *Amap) FetchPOIs(ctx context.Context, area model.SearchArea) ([]model.POIRecord, error) {
	if !s.IsEnabled() {
		return nil, Fail(AmapName, KindUnavailable, fmt.Errorf("amap key not configured"))
	}
	if err := area.Center.Validate(); err != nil {
		return nil, Fail(AmapName, KindInvalidRequest, err)
	}

	first, total, err := s.searchPage(ctx, area, 1)
	if err != nil {
		return nil, err
	}

	pages := (total + amapPageSize - 1) / amapPageSize
	if limit := s.pageLimit(); pages > limit {
		return nil, Fail(AmapName, KindIncomplete,
			fmt.Errorf("%d results need %d pages, at most %d can be fetched", total, pages, limit))
	}
	if pages <= 1 {
		return first, nil
	}

	results := make([][]model.POIRecord, pages)
	results[0] = first

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(amapConcurrency)
	for page := 2; page <= pages; page++ {
		page := page
		g.Go(func() error {
			pois, _, err := s.searchPage(gctx, area, page)
			if err != nil {
				return err
			}
			results[page-1] = pois
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.POIRecord
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// pageLimit configured page cap, bounded by the API limit
func (s *Amap) pageLimit() int {
	if s.maxPages <= 0 || s.maxPages > amapMaxPages {
		return amapMaxPages
	}
	return s.maxPages
}

// searchPage fetches one result page and returns its POIs and the total count
func (s *Amap) searchPage(ctx context.Context, area model.SearchArea, page int) ([]model.POIRecord, int, error) {
	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("location", fmt.Sprintf("%.6f,%.6f", area.Center.Lng, area.Center.Lat))
	params.Set("radius", strconv.Itoa(area.Radius))
	params.Set("types", strings.Join(amapSearchTypes, "|"))
	params.Set("offset", strconv.Itoa(amapPageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("extensions", "base")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, Fail(AmapName, KindInvalidRequest, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, Fail(AmapName, KindUnavailable, fmt.Errorf("amap API request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, Fail(AmapName, KindUnavailable, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, Fail(AmapName, KindUnavailable, fmt.Errorf("read response failed: %w", err))
	}

	var result amapResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, 0, Fail(AmapName, KindMalformedResponse, fmt.Errorf("parse response failed: %w", err))
	}

	if result.Status != "1" {
		kind := KindUnavailable
		if strings.Contains(result.Info, "LIMIT") {
			kind = KindRateLimited
		}
		return nil, 0, Fail(AmapName, kind, fmt.Errorf("amap API error: %s", result.Info))
	}

	total, _ := strconv.Atoi(result.Count)

	pois := make([]model.POIRecord, 0, len(result.POIs))
	for _, ap := range result.POIs {
		if poi := s.convertToPOI(ap); poi != nil {
			pois = append(pois, *poi)
		}
	}
	return pois, total, nil
}

// convertToPOI maps an Amap POI; unknown type codes keep an empty category
func (s *Amap) convertToPOI(ap amapPOI) *model.POIRecord {
	var lng, lat float64
	if _, err := fmt.Sscanf(ap.Location, "%f,%f", &lng, &lat); err != nil {
		return nil
	}

	// multi-typed POIs carry codes joined by "|"; the first one wins
	typeCode := strings.Split(ap.TypeCode, "|")[0]
	category, ok := amapTypeMapping[typeCode]
	if !ok && len(typeCode) == 6 {
		category = amapTypeMapping[typeCode[:4]+"00"]
	}

	return &model.POIRecord{
		ID:       ap.ID,
		Name:     string(ap.Name),
		Category: category,
		Lng:      lng,
		Lat:      lat,
		Source:   AmapName,
		Tags: map[string]string{
			"typecode": ap.TypeCode,
			"type":     ap.Type,
			"address":  string(ap.Address),
		},
	}
}
