package analyzer

import (
	"fmt"

	"github.com/sells-group/ppc-cli/internal/model"
)

// Match type labels used in decisions.
const (
	MatchExact          = "exact"
	MatchPhrase         = "phrase"
	MatchCurrent        = "current"
	MatchNegativeExact  = "negative exact"
	MatchNegativePhrase = "negative phrase"
)

type tierDecision struct {
	action   model.Action
	bid      string
	priority string
	match    string
	notes    string
}

var tierDecisions = map[model.Tier]tierDecision{
	model.TierStrategicCore: {
		model.ActionIncreaseBid, "+25-35%", "high", MatchExact,
		"Move to a dedicated exact match ad group and prioritize top placements",
	},
	model.TierEfficientExpansion: {
		model.ActionIncreaseBid, "+15-25%", "medium-high", MatchPhrase,
		"Add as phrase match and raise the daily budget",
	},
	model.TierStablePerformers: {
		model.ActionMaintainBid, "+5-10%", "medium", MatchCurrent,
		"Hold or slightly raise the bid, keep the current match type",
	},
	model.TierNeedsOptimization: {
		model.ActionDecreaseBid, "-5-10%", "medium-low", MatchCurrent,
		"Lower the bid, keep serving and improve listing relevance",
	},
	model.TierTestObservation: {
		model.ActionLimitBudget, "-15-20%", "low", MatchCurrent,
		"Cap the daily budget and run an A/B test",
	},
}

// GenerateDecisions formats tiered terms and negative words as decisions.
// It does no filtering.
func GenerateDecisions(rec model.EnhancedRecommendations) model.Decisions {
	d := model.Decisions{
		ByTier:        make(map[model.Tier][]model.Decision, len(model.Tiers)),
		StopTargeting: []model.Decision{},
	}
	for _, tier := range model.Tiers {
		terms := rec.Tier(tier)
		out := make([]model.Decision, 0, len(terms))
		for _, t := range terms {
			out = append(out, decideTerm(tier, t.SearchTerm))
		}
		d.ByTier[tier] = out
	}

	for _, w := range rec.ExactNegative {
		d.StopTargeting = append(d.StopTargeting, model.Decision{
			Term:          w.Word,
			Action:        model.ActionNegativeExact,
			BidAdjustment: "N/A",
			Priority:      "high",
			MatchType:     MatchNegativeExact,
			Notes:         fmt.Sprintf("%s clicks, $%.2f spent with no orders", formatCount(w.Clicks), w.Spend),
		})
	}
	for _, w := range rec.PhraseNegative {
		d.StopTargeting = append(d.StopTargeting, model.Decision{
			Term:          w.Word,
			Action:        model.ActionNegativePhrase,
			BidAdjustment: "N/A",
			Priority:      "medium-high",
			MatchType:     MatchNegativePhrase,
			Notes:         fmt.Sprintf("high ACOS (%s), %s clicks", noteACOS(w.ACOS), formatCount(w.Clicks)),
		})
	}
	return d
}

func decideTerm(tier model.Tier, term string) model.Decision {
	if tier == model.TierStrategyAdjustment {
		if termWordCount(term) <= 2 {
			return model.Decision{
				Term:          term,
				Action:        model.ActionDecreaseBid,
				BidAdjustment: "-20-25%",
				Priority:      "low",
				MatchType:     MatchCurrent,
				Notes:         "Lower the bid and limit exposure",
			}
		}
		return model.Decision{
			Term:          term,
			Action:        model.ActionNegativeExact,
			BidAdjustment: "N/A",
			Priority:      "low",
			MatchType:     MatchNegativeExact,
			Notes:         "Add as negative exact and build new combinations without it",
		}
	}
	td := tierDecisions[tier]
	return model.Decision{
		Term:          term,
		Action:        td.action,
		BidAdjustment: td.bid,
		Priority:      td.priority,
		MatchType:     td.match,
		Notes:         td.notes,
	}
}

// FormatACOS renders an ACOS percentage, using "∞" for the no-sales
// sentinel.
func FormatACOS(acos float64, decimals int) string {
	if model.IsInfiniteACOS(acos) {
		return "∞"
	}
	return fmt.Sprintf("%.*f%%", decimals, acos)
}

// noteACOS is FormatACOS for decision notes, where the sentinel keeps its
// percent sign.
func noteACOS(acos float64) string {
	if model.IsInfiniteACOS(acos) {
		return "∞%"
	}
	return FormatACOS(acos, 0)
}

func formatCount(f float64) string {
	return fmt.Sprintf("%g", f)
}
