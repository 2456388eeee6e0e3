package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/metrics"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/provider"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/scoring"
)

// ErrInvalidRequest the request coordinates cannot be analyzed
var ErrInvalidRequest = errors.New("invalid analysis request")

// AnalysisService footfall analysis service
type AnalysisService struct {
	provider provider.Provider
	table    *model.CategoryWeightTable
	bounds   model.RadiusBounds
	metrics  *metrics.Registry
}

// NewAnalysisService creates the analysis service; m may be nil
func NewAnalysisService(p provider.Provider, table *model.CategoryWeightTable, bounds model.RadiusBounds, m *metrics.Registry) *AnalysisService {
	return &AnalysisService{
		provider: p,
		table:    table,
		bounds:   bounds,
		metrics:  m,
	}
}

// Analyze scores the area around the requested point.
// Provider failures are returned as *provider.ProviderError and no score is computed.
func (s *AnalysisService) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResult, error) {
	if err := req.Normalize(s.bounds); err != nil {
		s.recordFailure(metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	area := req.Area()

	start := time.Now()
	pois, err := s.provider.FetchPOIs(ctx, area)
	if s.metrics != nil {
		s.metrics.ObserveFetch(s.provider.Name(), start, err)
	}
	if err != nil {
		s.recordFailure(metrics.ResultProviderError)
		log.Error().Err(err).
			Str("provider", s.provider.Name()).
			Float64("lat", area.Center.Lat).
			Float64("lng", area.Center.Lng).
			Int("radius", area.Radius).
			Msg("poi fetch failed")
		return nil, err
	}

	score := scoring.ComputeScore(pois, s.table)

	result := &model.AnalysisResult{
		Origin:     model.Point{area.Center.Lng, area.Center.Lat},
		Radius:     area.Radius,
		TotalScore: score.TotalScore,
		Breakdown:  score.Breakdown,
		POICount:   len(pois),
		SearchArea: area.AsGeoJSON(),
		Provider:   s.provider.Name(),
		Summary:    model.ScoreSummary(score.TotalScore, area.Radius),
	}
	if req.IncludePOIs {
		result.POIs = model.POIsAsGeoJSON(pois)
		result.RawPOIs = model.RawPOIs(pois)
	}

	if s.metrics != nil {
		s.metrics.ObserveAnalysis(len(pois), score.TotalScore)
	}
	log.Debug().
		Float64("score", score.TotalScore).
		Int("pois", len(pois)).
		Int("categories", len(score.Breakdown)).
		Msg("analysis complete")

	return result, nil
}

// Categories the weight table in declaration order
func (s *AnalysisService) Categories() []model.CategoryWeight {
	return s.table.Entries()
}

// RadiusBounds configured radius range
func (s *AnalysisService) RadiusBounds() model.RadiusBounds {
	return s.bounds
}

func (s *AnalysisService) recordFailure(result string) {
	if s.metrics != nil {
		s.metrics.RecordFailure(result)
	}
}
