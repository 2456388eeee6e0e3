package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/config"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/provider"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/service"
)

type stubProvider struct {
	pois []model.POIRecord
	err  error
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) FetchPOIs(context.Context, model.SearchArea) ([]model.POIRecord, error) {
	return s.pois, s.err
}

func newStubService(p provider.Provider) *service.AnalysisService {
	return service.NewAnalysisService(p, model.DefaultWeightTable(), model.DefaultRadiusBounds(), nil)
}

var whiteTown = []model.POIRecord{
	{Name: "Petit Seminaire", Category: "school"},
	{Name: "Ecole Francaise", Category: "school"},
	{Name: "Providence Mall", Category: "mall"},
	{Name: "Le Cafe", Category: "restaurant"},
}

func TestScoreLocation_Report(t *testing.T) {
	var out bytes.Buffer
	req := &model.AnalysisRequest{Lat: 11.936, Lng: 79.835, IncludePOIs: true}

	err := scoreLocation(context.Background(), &out, newStubService(stubProvider{pois: whiteTown}), req, true, false)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Footfall Score: 3.6 (within 500 meters)")
	assert.Contains(t, text, "POIs found: 4")
	assert.Contains(t, text, "CATEGORY  COUNT  WEIGHT  SCORE")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("mall")), bytes.Index(out.Bytes(), []byte("school ")))
	assert.Contains(t, text, "Le Cafe")
}

func TestScoreLocation_Empty(t *testing.T) {
	var out bytes.Buffer
	req := &model.AnalysisRequest{Lat: 11.936, Lng: 79.835}

	err := scoreLocation(context.Background(), &out, newStubService(stubProvider{}), req, false, false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Footfall Score: 0 (within 500 meters)")
	assert.Contains(t, out.String(), "No scored categories in this area.")
}

func TestScoreLocation_JSON(t *testing.T) {
	var out bytes.Buffer
	req := &model.AnalysisRequest{Lat: 11.936, Lng: 79.835, Radius: 1000}

	err := scoreLocation(context.Background(), &out, newStubService(stubProvider{pois: whiteTown}), req, false, true)
	require.NoError(t, err)

	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 3.6, result.TotalScore)
	assert.Equal(t, 1000, result.Radius)
	require.Len(t, result.Breakdown, 2)
	assert.Equal(t, "mall", result.Breakdown[0].Category)
}

func TestScoreLocation_ProviderFailure(t *testing.T) {
	var out bytes.Buffer
	p := stubProvider{err: provider.Fail("stub", provider.KindUnavailable, errors.New("offline"))}

	err := scoreLocation(context.Background(), &out, newStubService(p), &model.AnalysisRequest{Lat: 11.9, Lng: 79.8}, false, false)
	assert.ErrorIs(t, err, provider.ErrProviderFailure)
	assert.Contains(t, err.Error(), "failed to analyze location")
	assert.Empty(t, out.String())
}

func TestPrintCategories(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printCategories(&out, model.DefaultWeightTable()))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 36)
	assert.Regexp(t, `^school\s+0\.8$`, string(lines[1]))
	assert.Regexp(t, `^zoo\s+1\.2$`, string(lines[35]))
}

func TestNewSource(t *testing.T) {
	cfg := &config.Config{
		Overpass: config.OverpassConfig{URL: "http://localhost", RPS: 1, Burst: 1, CategoryTags: []string{"amenity"}},
	}

	p, closeFn, err := newSource(context.Background(), provider.OverpassName, cfg, model.DefaultWeightTable())
	require.NoError(t, err)
	assert.Nil(t, closeFn)
	assert.Equal(t, provider.OverpassName, p.Name())

	_, _, err = newSource(context.Background(), provider.AmapName, cfg, model.DefaultWeightTable())
	assert.Error(t, err)

	_, _, err = newSource(context.Background(), "bing", cfg, model.DefaultWeightTable())
	assert.Error(t, err)
}

func TestBuildCache_MemoryWithoutRedis(t *testing.T) {
	cache, closeFn := buildCache(context.Background(), config.CacheConfig{})
	assert.Equal(t, "memory", cache.Backend())
	assert.Nil(t, closeFn)
}
