package model

import "time"

// InfiniteACOS marks a row or word that spent money without any sales. It is
// compared numerically like any other ACOS, so it always exceeds realistic
// thresholds.
const InfiniteACOS = 999.0

// ACOS returns spend/sales*100, InfiniteACOS when there is spend but no sales,
// and 0 when there is no spend.
func ACOS(spend, sales float64) float64 {
	switch {
	case sales > 0:
		return spend / sales * 100
	case spend > 0:
		return InfiniteACOS
	default:
		return 0
	}
}

// IsInfiniteACOS reports whether acos is the no-sales sentinel.
func IsInfiniteACOS(acos float64) bool {
	return acos == InfiniteACOS
}

// Ratio returns num/den, or 0 when den is not positive.
func Ratio(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0
}

// MetricRow is a normalized report row with coerced counters and derived
// ratios. Fields keeps the full canonical row, including columns the
// normalizer did not recognize.
type MetricRow struct {
	SearchTerm     string     `json:"searchTerm"`
	Impressions    float64    `json:"impressions"`
	Clicks         float64    `json:"clicks"`
	Orders         float64    `json:"orders"`
	Spend          float64    `json:"spend"`
	Sales          float64    `json:"sales"`
	CTR            float64    `json:"ctr"`
	ConversionRate float64    `json:"conversionRate"`
	ACOS           float64    `json:"acos"`
	CPC            float64    `json:"cpc"`
	ROAS           float64    `json:"roas"`
	Date           *time.Time `json:"date,omitempty"`
	MatchType      string     `json:"matchType,omitempty"`
	CampaignName   string     `json:"campaignName,omitempty"`
	AdGroupName    string     `json:"adGroupName,omitempty"`
	IsRecent       bool       `json:"isRecent"`
	Fields         *Row       `json:"fields,omitempty"`
}

// Summary aggregates a set of metric rows. Ratios are computed from the
// totals, so AverageACOS is spend-weighted rather than a mean of row ACOS.
type Summary struct {
	TotalClicks       float64 `json:"totalClicks"`
	TotalSpend        float64 `json:"totalSpend"`
	TotalSales        float64 `json:"totalSales"`
	TotalOrders       float64 `json:"totalOrders"`
	TotalImpressions  float64 `json:"totalImpressions"`
	AverageACOS       float64 `json:"averageAcos"`
	AverageCPC        float64 `json:"averageCPC"`
	ClickThroughRate  float64 `json:"clickThroughRate"`
	ConversionRate    float64 `json:"conversionRate"`
	ROAS              float64 `json:"roas"`
	ProcessedKeywords int     `json:"processedKeywords"`
}

// Trends holds percentage changes between two periods.
type Trends struct {
	ACOSTrend       float64 `json:"acosTrend"`
	CTRTrend        float64 `json:"ctrTrend"`
	ConversionTrend float64 `json:"conversionTrend"`
	CPCTrend        float64 `json:"cpcTrend"`
}

// TimeComparison compares recent rows with older rows.
type TimeComparison struct {
	Current  Summary `json:"current"`
	Previous Summary `json:"previous"`
	Trends   Trends  `json:"trends"`
}

// FunnelStage is the purchase-intent bucket of a search term.
type FunnelStage string

// Funnel stages.
const (
	FunnelTop    FunnelStage = "top"
	FunnelMiddle FunnelStage = "middle"
	FunnelBottom FunnelStage = "bottom"
)

// FunnelAnalysis partitions rows by funnel stage.
type FunnelAnalysis struct {
	Top    []MetricRow `json:"top"`
	Middle []MetricRow `json:"middle"`
	Bottom []MetricRow `json:"bottom"`
}

// Len returns the number of rows across all stages.
func (f FunnelAnalysis) Len() int {
	return len(f.Top) + len(f.Middle) + len(f.Bottom)
}
