package analyzer

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ppc-cli/internal/asin"
	"github.com/sells-group/ppc-cli/internal/model"
)

// NoRecommendationsMessage is shown when no rule produced a candidate.
const NoRecommendationsMessage = "No optimization recommendations for this report."

// Options control one analysis run.
type Options struct {
	// Enhanced adds time comparison, funnel analysis, word weights, tiers
	// and decisions.
	Enhanced bool
	// Now is the reference time for recency. Defaults to time.Now.
	Now func() time.Time
	// RecentWindow defaults to DefaultRecentWindow.
	RecentWindow time.Duration
	// Aliases overrides the header alias table.
	Aliases []model.ColumnAlias
}

// Result is everything derived from one report. Enhanced-only fields are nil
// in standard mode.
type Result struct {
	RunID                   string                         `json:"runId"`
	Enhanced                bool                           `json:"enhanced"`
	Settings                model.Settings                 `json:"settings"`
	ProcessedData           []model.MetricRow              `json:"processedData"`
	Summary                 model.Summary                  `json:"summary"`
	SplitWords              []model.WordStat               `json:"splitWords"`
	Recommendations         model.Recommendations          `json:"recommendations"`
	ASIN                    model.AsinAnalysis             `json:"asin"`
	TimeComparison          *model.TimeComparison          `json:"timeComparison,omitempty"`
	FunnelAnalysis          *model.FunnelAnalysis          `json:"funnelAnalysis,omitempty"`
	EnhancedRecommendations *model.EnhancedRecommendations `json:"enhancedRecommendations,omitempty"`
	Decisions               *model.Decisions               `json:"decisions,omitempty"`
}

// Empty reports whether no row survived filtering.
func (r *Result) Empty() bool {
	return len(r.ProcessedData) == 0
}

// HasRecommendations reports whether any rule produced a candidate.
func (r *Result) HasRecommendations() bool {
	rec := r.Recommendations
	return len(rec.ExactNegative)+len(rec.PhraseNegative)+len(rec.IncreaseBid)+len(rec.DecreaseBid) > 0
}

// EmptyResult is the result of a report with no usable rows.
func EmptyResult(s model.Settings, enhanced bool) *Result {
	res := &Result{
		RunID:         uuid.NewString(),
		Enhanced:      enhanced,
		Settings:      s,
		ProcessedData: []model.MetricRow{},
		SplitWords:    []model.WordStat{},
		Recommendations: model.Recommendations{
			ExactNegative:  []model.WordStat{},
			PhraseNegative: []model.WordStat{},
			IncreaseBid:    []model.MetricRow{},
			DecreaseBid:    []model.MetricRow{},
		},
		ASIN: asin.Classify(nil),
	}
	if enhanced {
		res.TimeComparison = &model.TimeComparison{}
		res.FunnelAnalysis = &model.FunnelAnalysis{
			Top:    []model.MetricRow{},
			Middle: []model.MetricRow{},
			Bottom: []model.MetricRow{},
		}
		rec := RecommendEnhanced(nil, nil, s)
		dec := GenerateDecisions(rec)
		res.EnhancedRecommendations = &rec
		res.Decisions = &dec
	}
	return res
}

// Analyze runs the whole pipeline over raw report rows. It never fails: bad
// cells fall back to defaults and an empty report yields EmptyResult.
// Settings are assumed valid; see ValidateSettings.
func Analyze(raw []*model.RawRow, s model.Settings, opts Options) *Result {
	log := zap.L().With(zap.Bool("enhanced", opts.Enhanced))

	if len(raw) == 0 {
		log.Info("analyzer: no data to process")
		return EmptyResult(s, opts.Enhanced)
	}

	normalized := NewNormalizer(opts.Aliases).Normalize(raw)
	valid := FilterRows(normalized)
	log.Debug("analyzer: normalized rows",
		zap.Int("raw", len(raw)),
		zap.Int("valid", len(valid)),
	)
	if len(valid) == 0 {
		log.Info("analyzer: no rows with impressions, clicks or spend")
		return EmptyResult(s, opts.Enhanced)
	}

	calc := Calculator{Now: opts.Now, RecentWindow: opts.RecentWindow}
	rows := calc.Calculate(valid)

	res := &Result{
		RunID:         uuid.NewString(),
		Enhanced:      opts.Enhanced,
		Settings:      s,
		ProcessedData: rows,
	}

	// Branches only read rows, so they can run side by side.
	var g errgroup.Group
	g.Go(func() error {
		res.Summary = Summarize(rows)
		return nil
	})
	g.Go(func() error {
		res.ASIN = asin.Classify(rows)
		return nil
	})
	g.Go(func() error {
		words := SplitWords(rows, opts.Enhanced)
		if opts.Enhanced {
			words = WeightWords(words, len(rows))
		}
		res.SplitWords = words
		return nil
	})
	if opts.Enhanced {
		g.Go(func() error {
			tc := CompareTimeWindows(rows)
			res.TimeComparison = &tc
			return nil
		})
		g.Go(func() error {
			fa := AnalyzeFunnel(rows)
			res.FunnelAnalysis = &fa
			return nil
		})
	}
	_ = g.Wait()

	if opts.Enhanced {
		rec := RecommendEnhanced(rows, res.SplitWords, s)
		dec := GenerateDecisions(rec)
		res.Recommendations = rec.Recommendations
		res.EnhancedRecommendations = &rec
		res.Decisions = &dec
	} else {
		res.Recommendations = Recommend(rows, res.SplitWords, s)
	}

	log.Info("analyzer: run complete",
		zap.String("run_id", res.RunID),
		zap.Int("rows", len(rows)),
		zap.Int("words", len(res.SplitWords)),
		zap.Int("exact_negative", len(res.Recommendations.ExactNegative)),
		zap.Int("phrase_negative", len(res.Recommendations.PhraseNegative)),
		zap.Int("increase_bid", len(res.Recommendations.IncreaseBid)),
		zap.Int("decrease_bid", len(res.Recommendations.DecreaseBid)),
		zap.Int("asins", res.ASIN.AsinPerformance.UniqueAsinCount),
	)
	return res
}
