package analyzer

import "github.com/sells-group/ppc-cli/internal/model"

// BaseTermScore is the score of a term before word adjustments.
const BaseTermScore = 100.0

// categoryAdjustments shift a term's score for each word it contains.
var categoryAdjustments = map[model.WordCategory]float64{
	model.CategorySuperEfficient: 30,
	model.CategoryEfficient:      20,
	model.CategoryAdequate:       10,
	model.CategoryMarginal:       -10,
	model.CategoryInefficient:    -20,
}

// tierFloors are inclusive lower bounds, highest first.
var tierFloors = []struct {
	tier  model.Tier
	floor float64
}{
	{model.TierStrategicCore, 150},
	{model.TierEfficientExpansion, 120},
	{model.TierStablePerformers, 90},
	{model.TierNeedsOptimization, 70},
	{model.TierTestObservation, 50},
	{model.TierStrategyAdjustment, 30},
}

// IndexWords keys word stats by word.
func IndexWords(words []model.WordStat) map[string]model.WordStat {
	idx := make(map[string]model.WordStat, len(words))
	for _, w := range words {
		idx[w.Word] = w
	}
	return idx
}

// ScoreTerm scores a search term from the categories of its words and its
// length. Every token of the lowercased term is looked up, duplicates
// included; tokens without stats contribute nothing.
func ScoreTerm(term string, words map[string]model.WordStat) float64 {
	if term == "" {
		return 0
	}
	score := BaseTermScore
	for _, tok := range splitTerm(term) {
		w, ok := words[tok]
		if !ok {
			continue
		}
		score += categoryAdjustments[w.Category]
	}
	return score * RelevanceMultiplier(term)
}

// RelevanceMultiplier favors longer, more specific terms.
func RelevanceMultiplier(term string) float64 {
	switch n := termWordCount(term); {
	case n >= 3:
		return 1.2
	case n == 2:
		return 1.0
	default:
		return 0.8
	}
}

// TierFor buckets a score. Scores under 30 get TierNone.
func TierFor(score float64) model.Tier {
	for _, t := range tierFloors {
		if score >= t.floor {
			return t.tier
		}
	}
	return model.TierNone
}
