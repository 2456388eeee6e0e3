package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/config"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/scoring"
)

func amapServer(t *testing.T, total int, pageFn func(page string) []map[string]interface{}) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "79.835000,11.936000", q.Get("location"))
		assert.Equal(t, "500", q.Get("radius"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "1",
			"info":   "OK",
			"count":  fmt.Sprint(total),
			"pois":   pageFn(q.Get("page")),
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func amapConfig(url string) config.AmapConfig {
	return config.AmapConfig{Key: "test-key", Enabled: true, BaseURL: url, MaxPages: amapMaxPages}
}

func TestAmap_FetchPOIs_SinglePage(t *testing.T) {
	srv, calls := amapServer(t, 3, func(string) []map[string]interface{} {
		return []map[string]interface{}{
			{"id": "B1", "name": "Providence Mall", "typecode": "060101", "location": "79.8362,11.9355", "address": []string{}},
			{"id": "B2", "name": "SBI", "typecode": "160100|160300", "location": "79.8350,11.9360", "address": "Mission St"},
			{"id": "B3", "name": "Odd", "typecode": "999999", "location": "79.8,11.9"},
			{"id": "B4", "name": "No location", "typecode": "160100", "location": ""},
		}
	})

	pois, err := NewAmap(amapConfig(srv.URL)).FetchPOIs(context.Background(), pondicherry)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	require.Len(t, pois, 3)
	assert.Equal(t, "mall", pois[0].Category)
	assert.Equal(t, 79.8362, pois[0].Lng)
	assert.Equal(t, "", pois[0].Tags["address"])
	assert.Equal(t, "bank", pois[1].Category)
	assert.Equal(t, "Mission St", pois[1].Tags["address"])
	assert.Equal(t, "", pois[2].Category)
	assert.Equal(t, AmapName, pois[2].Source)
}

func TestAmap_FetchPOIs_Pages(t *testing.T) {
	srv, calls := amapServer(t, 2*amapPageSize+1, func(page string) []map[string]interface{} {
		return []map[string]interface{}{
			{"id": "P" + page, "name": "Stop " + page, "typecode": "150700", "location": "79.83,11.93"},
		}
	})

	pois, err := NewAmap(amapConfig(srv.URL)).FetchPOIs(context.Background(), pondicherry)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))

	ids := make([]string, len(pois))
	for i, p := range pois {
		ids[i] = p.ID
		assert.Equal(t, "bus_stop", p.Category)
	}
	sort.Strings(ids)
	assert.Equal(t, []string{"P1", "P2", "P3"}, ids)
}

func TestAmap_FetchPOIs_AllPagesForDenseArea(t *testing.T) {
	const total = 300
	srv, calls := amapServer(t, total, func(page string) []map[string]interface{} {
		pois := make([]map[string]interface{}, amapPageSize)
		for i := range pois {
			pois[i] = map[string]interface{}{"id": fmt.Sprintf("%s-%d", page, i), "typecode": "060101", "location": "79.83,11.93"}
		}
		return pois
	})

	pois, err := NewAmap(amapConfig(srv.URL)).FetchPOIs(context.Background(), pondicherry)
	require.NoError(t, err)
	assert.Len(t, pois, total)
	assert.Equal(t, int32(total/amapPageSize), atomic.LoadInt32(calls))

	score := scoring.ComputeScore(pois, model.DefaultWeightTable())
	assert.Equal(t, 600.0, score.TotalScore)
}

func TestAmap_FetchPOIs_TooManyResultsIsIncomplete(t *testing.T) {
	srv, calls := amapServer(t, 1000, func(page string) []map[string]interface{} {
		return []map[string]interface{}{{"id": page, "typecode": "060400", "location": "79.83,11.93"}}
	})
	cfg := amapConfig(srv.URL)
	cfg.MaxPages = 2

	pois, err := NewAmap(cfg).FetchPOIs(context.Background(), pondicherry)
	assert.Nil(t, pois)
	assert.Equal(t, KindIncomplete, KindOf(err))
	assert.ErrorIs(t, err, ErrProviderFailure)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestAmap_PageLimit(t *testing.T) {
	assert.Equal(t, 4, NewAmap(config.AmapConfig{MaxPages: 4}).pageLimit())
	assert.Equal(t, amapMaxPages, NewAmap(config.AmapConfig{MaxPages: 500}).pageLimit())
	assert.Equal(t, amapMaxPages, NewAmap(config.AmapConfig{}).pageLimit())
}

func TestAmap_Failures(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		_, err := NewAmap(config.AmapConfig{}).FetchPOIs(context.Background(), pondicherry)
		assert.Equal(t, KindUnavailable, KindOf(err))
	})

	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"0","info":"DAILY_QUERY_OVER_LIMIT"}`))
		}))
		defer srv.Close()

		_, err := NewAmap(amapConfig(srv.URL)).FetchPOIs(context.Background(), pondicherry)
		assert.Equal(t, KindRateLimited, KindOf(err))
	})

	t.Run("invalid key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"0","info":"INVALID_USER_KEY"}`))
		}))
		defer srv.Close()

		_, err := NewAmap(amapConfig(srv.URL)).FetchPOIs(context.Background(), pondicherry)
		assert.Equal(t, KindUnavailable, KindOf(err))
	})

	t.Run("malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		_, err := NewAmap(amapConfig(srv.URL)).FetchPOIs(context.Background(), pondicherry)
		assert.Equal(t, KindMalformedResponse, KindOf(err))
	})

	t.Run("later page fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") != "1" {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"status":"1","count":"60","pois":[]}`))
		}))
		defer srv.Close()

		pois, err := NewAmap(amapConfig(srv.URL)).FetchPOIs(context.Background(), pondicherry)
		assert.Nil(t, pois)
		assert.Equal(t, KindUnavailable, KindOf(err))
	})

	t.Run("invalid center", func(t *testing.T) {
		_, err := NewAmap(amapConfig("http://127.0.0.1:1")).FetchPOIs(context.Background(),
			model.SearchArea{Center: model.Location{Lat: -91}, Radius: 100})
		assert.Equal(t, KindInvalidRequest, KindOf(err))
	})
}

func TestFlexibleString(t *testing.T) {
	var v struct {
		A FlexibleString `json:"a"`
		B FlexibleString `json:"b"`
		C FlexibleString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":["y","z"],"c":42}`), &v))
	assert.Equal(t, FlexibleString("x"), v.A)
	assert.Equal(t, FlexibleString("y"), v.B)
	assert.Equal(t, FlexibleString(""), v.C)
}

func TestAmap_ConvertToPOI_TransitCodes(t *testing.T) {
	s := NewAmap(amapConfig("http://127.0.0.1:1"))
	tests := []struct {
		typeCode string
		category string
	}{
		{"150400", "bus_station"},
		{"150700", "bus_stop"},
		{"150903", "parking"},
		{"150500", ""}, // subway
		{"150600", ""}, // light rail
	}
	for _, tt := range tests {
		t.Run(tt.typeCode, func(t *testing.T) {
			poi := s.convertToPOI(amapPOI{ID: "B0", TypeCode: tt.typeCode, Location: "116.40,39.90"})
			require.NotNil(t, poi)
			assert.Equal(t, tt.category, poi.Category)
		})
	}
}
