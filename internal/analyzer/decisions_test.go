package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ppc-cli/internal/model"
)

func scored(term string, score float64) model.ScoredTerm {
	return model.ScoredTerm{MetricRow: metricRow(term, 1, 1, 1, 1, 1), Score: score}
}

func TestGenerateDecisions_Tiers(t *testing.T) {
	t.Parallel()

	rec := model.EnhancedRecommendations{
		Tiers: map[model.Tier][]model.ScoredTerm{
			model.TierStrategicCore:      {scored("patio cushions", 160)},
			model.TierEfficientExpansion: {scored("patio cushion covers", 130)},
			model.TierStablePerformers:   {scored("cushions", 95)},
			model.TierNeedsOptimization:  {scored("chair pads", 75)},
			model.TierTestObservation:    {scored("seat", 55)},
			model.TierStrategyAdjustment: {scored("cheap pads", 40), scored("cheap outdoor pads", 35)},
		},
	}

	d := GenerateDecisions(rec)
	require.Len(t, d.ByTier, len(model.Tiers))

	core := d.ByTier[model.TierStrategicCore][0]
	assert.Equal(t, "patio cushions", core.Term)
	assert.Equal(t, model.ActionIncreaseBid, core.Action)
	assert.Equal(t, "+25-35%", core.BidAdjustment)
	assert.Equal(t, "high", core.Priority)
	assert.Equal(t, MatchExact, core.MatchType)

	exp := d.ByTier[model.TierEfficientExpansion][0]
	assert.Equal(t, MatchPhrase, exp.MatchType)
	assert.Equal(t, "+15-25%", exp.BidAdjustment)

	assert.Equal(t, model.ActionMaintainBid, d.ByTier[model.TierStablePerformers][0].Action)
	assert.Equal(t, model.ActionDecreaseBid, d.ByTier[model.TierNeedsOptimization][0].Action)
	assert.Equal(t, model.ActionLimitBudget, d.ByTier[model.TierTestObservation][0].Action)

	adj := d.ByTier[model.TierStrategyAdjustment]
	require.Len(t, adj, 2)
	assert.Equal(t, model.ActionDecreaseBid, adj[0].Action)
	assert.Equal(t, "-20-25%", adj[0].BidAdjustment)
	assert.Equal(t, model.ActionNegativeExact, adj[1].Action)
	assert.Equal(t, MatchNegativeExact, adj[1].MatchType)
	assert.Equal(t, "N/A", adj[1].BidAdjustment)

	assert.Empty(t, d.StopTargeting)
	assert.NotNil(t, d.StopTargeting)
}

func TestGenerateDecisions_StopTargeting(t *testing.T) {
	t.Parallel()

	rec := model.EnhancedRecommendations{
		Recommendations: model.Recommendations{
			ExactNegative:  []model.WordStat{{Word: "free", Clicks: 12, Spend: 8.5, ACOS: model.InfiniteACOS}},
			PhraseNegative: []model.WordStat{{Word: "toy", Clicks: 4, Spend: 3, ACOS: 412.4}},
		},
	}

	d := GenerateDecisions(rec)
	require.Len(t, d.StopTargeting, 2)

	exact := d.StopTargeting[0]
	assert.Equal(t, "free", exact.Term)
	assert.Equal(t, model.ActionNegativeExact, exact.Action)
	assert.Equal(t, "high", exact.Priority)
	assert.Equal(t, "12 clicks, $8.50 spent with no orders", exact.Notes)

	phrase := d.StopTargeting[1]
	assert.Equal(t, model.ActionNegativePhrase, phrase.Action)
	assert.Equal(t, MatchNegativePhrase, phrase.MatchType)
	assert.Equal(t, "high ACOS (412%), 4 clicks", phrase.Notes)

	for _, tier := range model.Tiers {
		assert.NotNil(t, d.ByTier[tier], "tier %s", tier)
		assert.Empty(t, d.ByTier[tier])
	}
}

func TestGenerateDecisions_InfinitePhraseNote(t *testing.T) {
	t.Parallel()

	rec := model.EnhancedRecommendations{
		Recommendations: model.Recommendations{
			PhraseNegative: []model.WordStat{{Word: "cheap", Clicks: 30, Spend: 30, ACOS: model.InfiniteACOS}},
		},
	}
	d := GenerateDecisions(rec)
	require.Len(t, d.StopTargeting, 1)
	assert.Equal(t, "high ACOS (∞%), 30 clicks", d.StopTargeting[0].Notes)
}

func TestFormatACOS(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "∞", FormatACOS(model.InfiniteACOS, 2))
	assert.Equal(t, "25.46%", FormatACOS(25.456, 2))
	assert.Equal(t, "0%", FormatACOS(0, 0))
}
