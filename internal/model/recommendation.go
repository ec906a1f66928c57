package model

// Settings holds the user-tunable recommendation thresholds.
// TargetACOSIndex is a fraction (0.3 = 30% ACOS); the rest are multipliers
// applied to the target.
type Settings struct {
	TargetACOSIndex  float64 `json:"targetAcosIndex" yaml:"target_acos_index" mapstructure:"target_acos_index"`
	ExactNegativeLv  float64 `json:"exactNegativeLv" yaml:"exact_negative_lv" mapstructure:"exact_negative_lv"`
	PhraseNegativeLv float64 `json:"phraseNegativeLv" yaml:"phrase_negative_lv" mapstructure:"phrase_negative_lv"`
	Reliability      float64 `json:"reliability" yaml:"reliability" mapstructure:"reliability"`
	IncreaseBidLv    float64 `json:"increaseBidLv" yaml:"increase_bid_lv" mapstructure:"increase_bid_lv"`
	DecreaseBidLv    float64 `json:"decreaseBidLv" yaml:"decrease_bid_lv" mapstructure:"decrease_bid_lv"`
}

// DefaultSettings returns the stock thresholds.
func DefaultSettings() Settings {
	return Settings{
		TargetACOSIndex:  0.3,
		ExactNegativeLv:  1.0,
		PhraseNegativeLv: 10.0,
		Reliability:      1.0,
		IncreaseBidLv:    0.7,
		DecreaseBidLv:    1.1,
	}
}

// TargetACOS returns the target as a percentage.
func (s Settings) TargetACOS() float64 {
	return s.TargetACOSIndex * 100
}

// Recommendations are the base rule outputs.
type Recommendations struct {
	ExactNegative  []WordStat  `json:"exactNegative"`
	PhraseNegative []WordStat  `json:"phraseNegative"`
	IncreaseBid    []MetricRow `json:"increaseBid"`
	DecreaseBid    []MetricRow `json:"decreaseBid"`
}

// Tier is the score bucket of a search term.
type Tier string

// Tiers, from highest score to lowest. TierNone means the term scored below
// every tier.
const (
	TierStrategicCore      Tier = "strategicCore"
	TierEfficientExpansion Tier = "efficientExpansion"
	TierStablePerformers   Tier = "stablePerformers"
	TierNeedsOptimization  Tier = "needsOptimization"
	TierTestObservation    Tier = "testObservation"
	TierStrategyAdjustment Tier = "strategyAdjustment"
	TierNone               Tier = ""
)

// Tiers lists the named tiers in descending score order.
var Tiers = []Tier{
	TierStrategicCore,
	TierEfficientExpansion,
	TierStablePerformers,
	TierNeedsOptimization,
	TierTestObservation,
	TierStrategyAdjustment,
}

// ScoredTerm is a metric row with the score it earned in one pass.
type ScoredTerm struct {
	MetricRow
	Score float64 `json:"score"`
}

// EnhancedRecommendations extends the base rules with funnel-adjusted bid
// lists and tiered terms.
type EnhancedRecommendations struct {
	Recommendations
	Tiers map[Tier][]ScoredTerm `json:"tiers"`
}

// Tier returns the scored terms of tier t.
func (e EnhancedRecommendations) Tier(t Tier) []ScoredTerm {
	return e.Tiers[t]
}

// Action is what to do with a search term or word.
type Action string

// Actions.
const (
	ActionIncreaseBid    Action = "increaseBid"
	ActionMaintainBid    Action = "maintainBid"
	ActionDecreaseBid    Action = "decreaseBid"
	ActionLimitBudget    Action = "limitBudget"
	ActionNegativeExact  Action = "negativeExact"
	ActionNegativePhrase Action = "negativePhrase"
)

// Decision is a formatted recommendation for one term or word.
type Decision struct {
	Term          string `json:"term"`
	Action        Action `json:"action"`
	BidAdjustment string `json:"bidAdjustment"`
	Priority      string `json:"priority"`
	MatchType     string `json:"matchType"`
	Notes         string `json:"notes"`
}

// DecisionGroupStopTargeting collects negative-keyword decisions.
const DecisionGroupStopTargeting = "stopTargeting"

// Decisions groups decisions by tier, plus the stop-targeting group for
// negative words.
type Decisions struct {
	ByTier        map[Tier][]Decision `json:"byTier"`
	StopTargeting []Decision          `json:"stopTargeting"`
}

// AsinDetail aggregates rows whose search term contains one ASIN.
type AsinDetail struct {
	ASIN           string   `json:"asin"`
	SearchTerms    []string `json:"searchTerms"`
	Clicks         float64  `json:"clicks"`
	Spend          float64  `json:"spend"`
	Sales          float64  `json:"sales"`
	Orders         float64  `json:"orders"`
	Impressions    float64  `json:"impressions"`
	ACOS           float64  `json:"acos"`
	ConversionRate float64  `json:"conversionRate"`
}

// AsinTerm is a metric row annotated with the ASIN found in its search term.
type AsinTerm struct {
	MetricRow
	ASIN string `json:"asin"`
}

// AsinPerformance totals every ASIN-targeted row.
type AsinPerformance struct {
	TotalClicks      float64      `json:"totalClicks"`
	TotalSpend       float64      `json:"totalSpend"`
	TotalSales       float64      `json:"totalSales"`
	TotalOrders      float64      `json:"totalOrders"`
	TotalImpressions float64      `json:"totalImpressions"`
	UniqueAsinCount  int          `json:"uniqueAsinCount"`
	AsinDetails      []AsinDetail `json:"asinDetails"`
}

// AsinAnalysis splits rows into product-targeted and keyword-targeted terms.
type AsinAnalysis struct {
	AsinTerms       []AsinTerm      `json:"asinTerms"`
	NonAsinTerms    []MetricRow     `json:"nonAsinTerms"`
	AsinPerformance AsinPerformance `json:"asinPerformance"`
}
