package model

// Position is where a word sits inside its search term.
type Position string

// Word positions.
const (
	PositionFirst  Position = "first"
	PositionMiddle Position = "middle"
	PositionLast   Position = "last"
)

// PositionMultipliers weight a word by where it usually appears.
var PositionMultipliers = map[Position]float64{
	PositionFirst:  1.2,
	PositionMiddle: 1.0,
	PositionLast:   0.8,
}

// WordCategory is the efficiency class of a word.
type WordCategory string

// Word categories, from best to worst, plus the two low-data classes.
const (
	CategorySuperEfficient WordCategory = "superEfficient"
	CategoryEfficient      WordCategory = "efficient"
	CategoryAdequate       WordCategory = "adequate"
	CategoryMarginal       WordCategory = "marginal"
	CategoryInefficient    WordCategory = "inefficient"
	CategoryUndetermined   WordCategory = "undetermined"
	CategoryNoClicks       WordCategory = "noClicks"
)

// ReliabilityClicks is the click volume at which a word's reliability
// saturates at 1.
const ReliabilityClicks = 50.0

// Reliability returns min(1, clicks/ReliabilityClicks).
func Reliability(clicks float64) float64 {
	r := clicks / ReliabilityClicks
	if r > 1 {
		return 1
	}
	if r < 0 {
		return 0
	}
	return r
}

// WordStat aggregates every search term row containing a word. Positional
// and weighting fields are only filled in enhanced mode.
type WordStat struct {
	Word        string  `json:"word"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Orders      float64 `json:"orders"`
	Spend       float64 `json:"spend"`
	Sales       float64 `json:"sales"`
	Occurrences int     `json:"occurrences"`
	CTR         float64 `json:"ctr"`
	ConvRate    float64 `json:"convRate"`
	ACOS        float64 `json:"acos"`
	Reliability float64 `json:"reliability"`

	Positions             map[Position]int     `json:"positions,omitempty"`
	TotalPositions        int                  `json:"totalPositions,omitempty"`
	PositionProbabilities map[Position]float64 `json:"positionProbabilities,omitempty"`
	MainPosition          Position             `json:"mainPosition,omitempty"`
	FrequencyWeight       float64              `json:"frequencyWeight,omitempty"`
	PositionWeight        float64              `json:"positionWeight,omitempty"`
	FinalWeight           float64              `json:"finalWeight,omitempty"`
	Category              WordCategory         `json:"category,omitempty"`
}
