package analyzer

import (
	"strings"

	"github.com/sells-group/ppc-cli/internal/model"
)

// Research-intent and purchase-intent markers, matched as substrings.
var (
	TopFunnelMarkers    = []string{"best", "top", "vs", "compared", "review", "guide", "推荐", "比较"}
	BottomFunnelMarkers = []string{"buy", "price", "purchase", "discount", "coupon", "cheap", "deal", "购买", "价格", "优惠"}
)

// ClassifyFunnel buckets a search term by purchase intent. Markers win over
// length; long terms are specific and land at the bottom. Empty terms are
// middle.
func ClassifyFunnel(term string) model.FunnelStage {
	if term == "" {
		return model.FunnelMiddle
	}
	lower := strings.ToLower(term)
	if containsAny(lower, TopFunnelMarkers) {
		return model.FunnelTop
	}
	if containsAny(lower, BottomFunnelMarkers) {
		return model.FunnelBottom
	}
	if termWordCount(term) >= 4 {
		return model.FunnelBottom
	}
	return model.FunnelMiddle
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// AnalyzeFunnel partitions rows into exactly one funnel stage each.
func AnalyzeFunnel(rows []model.MetricRow) model.FunnelAnalysis {
	f := model.FunnelAnalysis{
		Top:    []model.MetricRow{},
		Middle: []model.MetricRow{},
		Bottom: []model.MetricRow{},
	}
	for _, r := range rows {
		switch ClassifyFunnel(r.SearchTerm) {
		case model.FunnelTop:
			f.Top = append(f.Top, r)
		case model.FunnelBottom:
			f.Bottom = append(f.Bottom, r)
		default:
			f.Middle = append(f.Middle, r)
		}
	}
	return f
}

// FunnelTargetACOS returns the target ACOS percentage for a term's funnel
// stage: research terms may run 1.5x hotter, purchase terms 0.8x.
func FunnelTargetACOS(term string, s model.Settings) float64 {
	base := s.TargetACOS()
	switch ClassifyFunnel(term) {
	case model.FunnelTop:
		return base * 1.5
	case model.FunnelBottom:
		return base * 0.8
	default:
		return base
	}
}
