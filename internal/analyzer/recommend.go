package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ppc-cli/internal/model"
)

// Minimum clicks before a word or term is acted on.
const (
	ExactNegativeMinClicks  = 5
	PhraseNegativeMinClicks = 3
	IncreaseBidMinClicks    = 3
	DecreaseBidMinClicks    = 5

	// phraseReliabilityFactor relaxes the reliability floor for phrase
	// negatives.
	phraseReliabilityFactor = 0.7
)

// ValidateSettings checks that thresholds are usable.
func ValidateSettings(s model.Settings) error {
	var errs []string

	if s.TargetACOSIndex <= 0 || s.TargetACOSIndex > 1 {
		errs = append(errs, "target_acos_index must be in (0, 1]")
	}
	multipliers := []struct {
		name string
		v    float64
	}{
		{"exact_negative_lv", s.ExactNegativeLv},
		{"phrase_negative_lv", s.PhraseNegativeLv},
		{"reliability", s.Reliability},
		{"increase_bid_lv", s.IncreaseBidLv},
		{"decrease_bid_lv", s.DecreaseBidLv},
	}
	for _, m := range multipliers {
		if m.v <= 0 || math.IsNaN(m.v) || math.IsInf(m.v, 0) {
			errs = append(errs, fmt.Sprintf("%s must be > 0", m.name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("analyzer: settings validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// targetFunc yields the target ACOS percentage used for a search term.
type targetFunc func(term string) float64

// Recommend applies the base threshold rules.
func Recommend(rows []model.MetricRow, words []model.WordStat, s model.Settings) model.Recommendations {
	flat := func(string) float64 { return s.TargetACOS() }
	return recommend(rows, words, s, flat)
}

func recommend(rows []model.MetricRow, words []model.WordStat, s model.Settings, target targetFunc) model.Recommendations {
	exact, phrase := NegativeWords(words, s)
	return model.Recommendations{
		ExactNegative:  exact,
		PhraseNegative: phrase,
		IncreaseBid:    increaseBid(rows, s, target),
		DecreaseBid:    decreaseBid(rows, s, target),
	}
}

// NegativeWords returns exact- and phrase-negative candidates. A word never
// appears in both.
func NegativeWords(words []model.WordStat, s model.Settings) (exact, phrase []model.WordStat) {
	exact = []model.WordStat{}
	phrase = []model.WordStat{}
	inExact := make(map[string]bool)

	for _, w := range words {
		if w.Clicks >= ExactNegativeMinClicks &&
			w.ACOS > s.TargetACOS()*s.ExactNegativeLv &&
			w.Reliability >= s.Reliability &&
			w.Orders == 0 {
			exact = append(exact, w)
			inExact[w.Word] = true
		}
	}
	for _, w := range words {
		if inExact[w.Word] {
			continue
		}
		if w.Clicks >= PhraseNegativeMinClicks &&
			w.ACOS > s.TargetACOS()*s.PhraseNegativeLv &&
			w.Reliability >= s.Reliability*phraseReliabilityFactor {
			phrase = append(phrase, w)
		}
	}
	return exact, phrase
}

func increaseBid(rows []model.MetricRow, s model.Settings, target targetFunc) []model.MetricRow {
	out := []model.MetricRow{}
	for _, r := range rows {
		t := target(r.SearchTerm)
		if r.Clicks >= IncreaseBidMinClicks && r.ACOS < t*s.IncreaseBidLv && r.Orders > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ACOS < out[j].ACOS })
	return out
}

func decreaseBid(rows []model.MetricRow, s model.Settings, target targetFunc) []model.MetricRow {
	out := []model.MetricRow{}
	for _, r := range rows {
		t := target(r.SearchTerm)
		if r.Clicks >= DecreaseBidMinClicks &&
			r.ACOS > t*s.DecreaseBidLv &&
			(r.Orders == 0 || r.ACOS > t*2) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ACOS > out[j].ACOS })
	return out
}

// RecommendEnhanced applies the base rules with funnel-adjusted targets for
// the bid lists and buckets every scored term into a tier.
func RecommendEnhanced(rows []model.MetricRow, words []model.WordStat, s model.Settings) model.EnhancedRecommendations {
	byFunnel := func(term string) float64 { return FunnelTargetACOS(term, s) }

	out := model.EnhancedRecommendations{
		Recommendations: recommend(rows, words, s, byFunnel),
		Tiers:           make(map[model.Tier][]model.ScoredTerm, len(model.Tiers)),
	}
	for _, t := range model.Tiers {
		out.Tiers[t] = []model.ScoredTerm{}
	}

	index := IndexWords(words)
	for _, r := range rows {
		if r.SearchTerm == "" {
			continue
		}
		score := ScoreTerm(r.SearchTerm, index)
		tier := TierFor(score)
		if tier == model.TierNone {
			continue
		}
		out.Tiers[tier] = append(out.Tiers[tier], model.ScoredTerm{MetricRow: r, Score: score})
	}
	return out
}
