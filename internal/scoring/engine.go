// Package scoring computes footfall scores from POI collections.
package scoring

import (
	"math"
	"sort"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

// ComputeScore weights POI counts by category and sums them.
//
// Only categories in the table are counted, by exact match. The breakdown
// lists categories with at least one POI, highest weighted score first;
// equal scores keep table order.
func ComputeScore(records []model.POIRecord, table *model.CategoryWeightTable) model.ScoreResult {
	counts := make([]int, table.Len())
	for _, r := range records {
		if i := table.Position(r.Category); i >= 0 {
			counts[i]++
		}
	}

	entries := table.Entries()
	breakdown := make([]model.CategoryBreakdownEntry, 0)
	total := 0.0
	for i, e := range entries {
		contribution := float64(counts[i]) * e.Weight
		total += contribution
		if counts[i] == 0 {
			continue
		}
		breakdown = append(breakdown, model.CategoryBreakdownEntry{
			Category:      e.Category,
			Count:         counts[i],
			Weight:        e.Weight,
			WeightedScore: Round2(contribution),
		})
	}

	sort.SliceStable(breakdown, func(a, b int) bool {
		return breakdown[a].WeightedScore > breakdown[b].WeightedScore
	})

	return model.ScoreResult{
		TotalScore: Round2(total),
		Breakdown:  breakdown,
	}
}

// Round2 rounds half away from zero to 2 decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
