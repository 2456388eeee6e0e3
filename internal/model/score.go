package model

// CategoryBreakdownEntry one scored category with at least one POI
type CategoryBreakdownEntry struct {
	Category      string  `json:"category"`
	Count         int     `json:"count"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"` // count * weight, 2 decimals
}

// ScoreResult footfall score of one POI collection
type ScoreResult struct {
	TotalScore float64                  `json:"total_score"`
	Breakdown  []CategoryBreakdownEntry `json:"breakdown"`
}
