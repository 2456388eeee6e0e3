package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/config"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// OverpassName provider name
const OverpassName = "overpass"

// Overpass queries the OpenStreetMap Overpass API
type Overpass struct {
	endpoint     string
	client       *http.Client
	limiter      *rate.Limiter
	timeout      time.Duration
	amenities    []string
	categoryTags []string
}

// overpassResponse Overpass JSON output
type overpassResponse struct {
	Remark   string            `json:"remark"`
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewOverpass creates the provider; amenities are the amenity values to query,
// normally the weight table categories.
func NewOverpass(cfg config.OverpassConfig, amenities []string) *Overpass {
	return &Overpass{
		endpoint: cfg.URL,
		client: &http.Client{
			// leave room over the server-side query timeout
			Timeout: cfg.Timeout + 5*time.Second,
		},
		limiter:      rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		timeout:      cfg.Timeout,
		amenities:    amenities,
		categoryTags: cfg.CategoryTags,
	}
}

// Name provider name
func (o *Overpass) Name() string { return OverpassName }

// FetchPOIs runs one Overpass query around the area center
func (o *Overpass) FetchPOIs(ctx context.Context, area model.SearchArea) ([]model.POIRecord, error) {
	if err := area.Center.Validate(); err != nil {
		return nil, Fail(OverpassName, KindInvalidRequest, err)
	}
	if area.Radius <= 0 {
		return nil, Fail(OverpassName, KindInvalidRequest, fmt.Errorf("radius %d must be positive", area.Radius))
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return nil, Fail(OverpassName, KindRateLimited, fmt.Errorf("%w: %v", errThrottled, err))
	}

	query := o.buildQuery(area)
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, Fail(OverpassName, KindInvalidRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, Fail(OverpassName, KindUnavailable, fmt.Errorf("overpass request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Fail(OverpassName, KindUnavailable, fmt.Errorf("read response failed: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, Fail(OverpassName, KindRateLimited, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusBadRequest:
		return nil, Fail(OverpassName, KindInvalidRequest, fmt.Errorf("status %d: %s", resp.StatusCode, snippet(body)))
	case resp.StatusCode != http.StatusOK:
		return nil, Fail(OverpassName, KindUnavailable, fmt.Errorf("status %d", resp.StatusCode))
	}

	var result overpassResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, Fail(OverpassName, KindMalformedResponse, fmt.Errorf("parse response failed: %w", err))
	}
	if strings.Contains(result.Remark, "runtime error") {
		return nil, Fail(OverpassName, KindUnavailable, fmt.Errorf("overpass: %s", result.Remark))
	}

	pois := make([]model.POIRecord, 0, len(result.Elements))
	for _, el := range result.Elements {
		pois = append(pois, o.convertToPOI(el))
	}

	log.Debug().
		Str("provider", OverpassName).
		Int("radius", area.Radius).
		Int("pois", len(pois)).
		Msg("overpass query done")

	return pois, nil
}

// buildQuery amenities from the table, every shop and retail buildings
func (o *Overpass) buildQuery(area model.SearchArea) string {
	around := fmt.Sprintf("(around:%d,%s,%s)",
		area.Radius,
		strconv.FormatFloat(area.Center.Lat, 'f', 6, 64),
		strconv.FormatFloat(area.Center.Lng, 'f', 6, 64),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", int(o.timeout.Seconds()))
	if len(o.amenities) > 0 {
		quoted := make([]string, len(o.amenities))
		for i, a := range o.amenities {
			quoted[i] = qlEscape(regexp.QuoteMeta(a))
		}
		fmt.Fprintf(&b, "  nwr[\"amenity\"~\"^(%s)$\"]%s;\n", strings.Join(quoted, "|"), around)
	}
	fmt.Fprintf(&b, "  nwr[\"shop\"]%s;\n", around)
	fmt.Fprintf(&b, "  nwr[\"building\"=\"retail\"]%s;\n", around)
	b.WriteString(");\nout center tags;\n")
	return b.String()
}

// convertToPOI maps an element to a record; category is the first present category tag
func (o *Overpass) convertToPOI(el overpassElement) model.POIRecord {
	lat, lng := el.Lat, el.Lon
	if el.Center != nil {
		lat, lng = el.Center.Lat, el.Center.Lon
	}

	var category string
	for _, key := range o.categoryTags {
		if v := el.Tags[key]; v != "" {
			category = v
			break
		}
	}

	return model.POIRecord{
		ID:       el.Type + "/" + strconv.FormatInt(el.ID, 10),
		Name:     el.Tags["name"],
		Category: category,
		Lng:      lng,
		Lat:      lat,
		Source:   OverpassName,
		Tags:     el.Tags,
	}
}

func qlEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
