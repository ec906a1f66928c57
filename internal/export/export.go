// Package export flattens analysis results into CSV tables for download.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ppc-cli/internal/analyzer"
	"github.com/sells-group/ppc-cli/internal/model"
)

// Kind names one export table.
type Kind string

// Export kinds.
const (
	KindPerformance     Kind = "performance"
	KindWords           Kind = "words"
	KindRecommendations Kind = "recommendations"
	KindNegatives       Kind = "negatives"
	KindBids            Kind = "bids"
	KindDecisions       Kind = "decisions"
	KindASIN            Kind = "asin"
)

// Filenames per kind.
var filenames = map[Kind]string{
	KindPerformance:     "amazon_keyword_performance.csv",
	KindWords:           "split_words_analysis.csv",
	KindRecommendations: "optimization_recommendations.csv",
	KindNegatives:       "negative_keywords.csv",
	KindBids:            "bid_adjustments.csv",
	KindDecisions:       "amazon_ppc_optimization_decisions.csv",
	KindASIN:            "asin_analysis.csv",
}

// ErrUnknownKind is returned for a kind outside Kinds.
var ErrUnknownKind = eris.New("export: unknown kind")

// ErrNotAvailable is returned when a table needs enhanced results that the
// run did not produce.
var ErrNotAvailable = eris.New("export: table requires an enhanced analysis")

// Kinds lists every export kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(filenames))
	for k := range filenames {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := filenames[k]; !ok {
		return "", eris.Wrapf(ErrUnknownKind, "%q", s)
	}
	return k, nil
}

// Table is a flat record set and the file name it downloads as.
type Table struct {
	Filename string
	Records  []*model.Row
}

// Build flattens one part of an analysis result.
func Build(kind Kind, res *analyzer.Result) (Table, error) {
	name, ok := filenames[kind]
	if !ok {
		return Table{}, eris.Wrapf(ErrUnknownKind, "%q", kind)
	}

	var recs []*model.Row
	switch kind {
	case KindPerformance:
		recs = Performance(res.ProcessedData)
	case KindWords:
		recs = Words(res.SplitWords)
	case KindRecommendations:
		recs = Recommendations(res.Recommendations)
	case KindNegatives:
		recs = Negatives(res.Recommendations)
	case KindBids:
		recs = Bids(res.Recommendations, res.Settings)
	case KindDecisions:
		if res.Decisions == nil {
			return Table{}, ErrNotAvailable
		}
		recs = Decisions(*res.Decisions)
	case KindASIN:
		recs = ASIN(res.ASIN.AsinPerformance.AsinDetails)
	}
	return Table{Filename: name, Records: recs}, nil
}

func record(kv ...any) *model.Row {
	r := model.NewRow(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

// Performance exports processed rows with every original column kept.
func Performance(rows []model.MetricRow) []*model.Row {
	out := make([]*model.Row, 0, len(rows))
	for _, m := range rows {
		var r *model.Row
		if m.Fields != nil {
			r = m.Fields.Clone()
		} else {
			r = record(
				model.ColSearchTerm, m.SearchTerm,
				model.ColImpressions, m.Impressions,
				model.ColClicks, m.Clicks,
				model.ColSpend, m.Spend,
				model.ColOrders, m.Orders,
				model.ColSales, m.Sales,
				model.ColCTR, m.CTR,
				model.ColConversionRate, m.ConversionRate,
				model.ColACOS, m.ACOS,
				model.ColCPC, m.CPC,
				model.ColROAS, m.ROAS,
			)
		}
		r.Set("isRecent", m.IsRecent)
		out = append(out, r)
	}
	return out
}

func wordRecord(w model.WordStat) *model.Row {
	r := record(
		"word", w.Word,
		"occurrences", w.Occurrences,
		"impressions", w.Impressions,
		"clicks", w.Clicks,
		"spend", w.Spend,
		"sales", w.Sales,
		"orders", w.Orders,
		"ctr", w.CTR,
		"convRate", w.ConvRate,
		"acos", w.ACOS,
		"reliability", w.Reliability,
	)
	if w.Category != "" {
		r.Set("mainPosition", string(w.MainPosition))
		r.Set("frequencyWeight", w.FrequencyWeight)
		r.Set("positionWeight", w.PositionWeight)
		r.Set("finalWeight", w.FinalWeight)
		r.Set("category", string(w.Category))
	}
	return r
}

// Words exports the split word table.
func Words(words []model.WordStat) []*model.Row {
	out := make([]*model.Row, 0, len(words))
	for _, w := range words {
		out = append(out, wordRecord(w))
	}
	return out
}

// Recommendation type labels.
const (
	TypeExactNegative  = "Exact Negative"
	TypePhraseNegative = "Phrase Negative"
	TypeIncreaseBid    = "Increase Bid"
	TypeDecreaseBid    = "Decrease Bid"
)

func termRecord(m model.MetricRow, typ string) *model.Row {
	return record(
		"term", m.SearchTerm,
		"clicks", m.Clicks,
		"orders", m.Orders,
		"acos", m.ACOS,
		"type", typ,
	)
}

// Recommendations exports negative words then bid changes, tagged by type.
func Recommendations(rec model.Recommendations) []*model.Row {
	var out []*model.Row
	for _, w := range rec.ExactNegative {
		r := wordRecord(w)
		r.Set("type", TypeExactNegative)
		out = append(out, r)
	}
	for _, w := range rec.PhraseNegative {
		r := wordRecord(w)
		r.Set("type", TypePhraseNegative)
		out = append(out, r)
	}
	for _, m := range rec.IncreaseBid {
		out = append(out, termRecord(m, TypeIncreaseBid))
	}
	for _, m := range rec.DecreaseBid {
		out = append(out, termRecord(m, TypeDecreaseBid))
	}
	return out
}

// Negatives exports only the negative keyword candidates.
func Negatives(rec model.Recommendations) []*model.Row {
	var out []*model.Row
	for _, w := range rec.ExactNegative {
		out = append(out, record("keyword", w.Word, "clicks", w.Clicks, "spend", w.Spend, "type", TypeExactNegative))
	}
	for _, w := range rec.PhraseNegative {
		out = append(out, record("keyword", w.Word, "clicks", w.Clicks, "acos", w.ACOS, "type", TypePhraseNegative))
	}
	return out
}

// Bids exports bid changes with a suggested adjustment against the flat
// target. Decreases are capped at 50%.
func Bids(rec model.Recommendations, s model.Settings) []*model.Row {
	target := s.TargetACOS()
	var out []*model.Row
	for _, m := range rec.IncreaseBid {
		adj := 0.0
		if target > 0 && s.IncreaseBidLv > 0 {
			adj = roundHalfUp((1 - m.ACOS/(target*s.IncreaseBidLv)) * 100)
		}
		r := termRecord(m, TypeIncreaseBid)
		r.Set("targetAcos", target)
		r.Set("recommendedAdjustment", fmt.Sprintf("+%.0f%%", adj))
		out = append(out, r)
	}
	for _, m := range rec.DecreaseBid {
		adj := 0.0
		if target > 0 {
			adj = math.Min(50, roundHalfUp((m.ACOS/target-1)*100))
		}
		r := termRecord(m, TypeDecreaseBid)
		r.Set("targetAcos", target)
		r.Set("recommendedAdjustment", fmt.Sprintf("-%.0f%%", adj))
		out = append(out, r)
	}
	return out
}

func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}

// Decisions exports every decision tagged with its tier, negative words
// last under DecisionGroupStopTargeting.
func Decisions(d model.Decisions) []*model.Row {
	var out []*model.Row
	add := func(category string, ds []model.Decision) {
		for _, dec := range ds {
			out = append(out, record(
				"term", dec.Term,
				"action", string(dec.Action),
				"bidAdjustment", dec.BidAdjustment,
				"priority", dec.Priority,
				"matchType", dec.MatchType,
				"notes", dec.Notes,
				"category", category,
			))
		}
	}
	for _, tier := range model.Tiers {
		add(string(tier), d.ByTier[tier])
	}
	add(model.DecisionGroupStopTargeting, d.StopTargeting)
	return out
}

// ASIN exports per-ASIN totals. ACOS is "∞" for ASINs that spent without
// sales.
func ASIN(details []model.AsinDetail) []*model.Row {
	out := make([]*model.Row, 0, len(details))
	for _, a := range details {
		out = append(out, record(
			"ASIN", a.ASIN,
			"Search Count", len(a.SearchTerms),
			"Clicks", a.Clicks,
			"Spend", fmt.Sprintf("%.2f", a.Spend),
			"Sales", fmt.Sprintf("%.2f", a.Sales),
			"Orders", a.Orders,
			"ACOS", analyzer.FormatACOS(a.ACOS, 2),
			"Conversion Rate", fmt.Sprintf("%.2f%%", a.ConversionRate*100),
		))
	}
	return out
}
