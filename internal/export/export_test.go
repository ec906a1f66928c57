package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ppc-cli/internal/analyzer"
	"github.com/sells-group/ppc-cli/internal/model"
)

func row(kv ...any) *model.Row {
	return record(kv...)
}

func TestWriteCSV(t *testing.T) {
	recs := []*model.Row{
		row("term", "户外 垫子", "clicks", 12.0, "type", "Increase Bid"),
		row("term", "say \"hi\", bye", "acos", model.InfiniteACOS, "type", "Decrease Bid"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"))
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "term,clicks,type,acos", lines[0])
	assert.Equal(t, "户外 垫子,12,Increase Bid,", lines[1])
	assert.Equal(t, `"say ""hi"", bye",,Decrease Bid,999`, lines[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "\ufeff", buf.String())
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := WriteFile(dir, Table{Filename: "x.csv", Records: []*model.Row{row("a", 1.0)}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffa\n1\n", string(data))
}

func TestOpen(t *testing.T) {
	var got string
	Open(func(p string) error { got = p; return nil }, "report.csv")
	assert.Equal(t, "report.csv", got)

	assert.NotPanics(t, func() {
		Open(func(string) error { return errors.New("no display") }, "report.csv")
	})
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("pdf")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Len(t, Kinds(), 7)
}

func sampleResult(t *testing.T, enhanced bool) *analyzer.Result {
	t.Helper()
	raw := []*model.RawRow{
		row("Customer Search Term", "patio cushions", "Impressions", 1000.0, "Clicks", 40.0, "Spend", 10.0, "Sales", 100.0, "Orders", 4.0, "Portfolio", "Main"),
		row("Customer Search Term", "free cushions", "Impressions", 800.0, "Clicks", 60.0, "Spend", 30.0, "Sales", 0.0, "Orders", 0.0, "Portfolio", "Main"),
		row("Customer Search Term", "b0abc12xyz", "Impressions", 100.0, "Clicks", 5.0, "Spend", 5.0, "Sales", 0.0, "Orders", 0.0),
	}
	return analyzer.Analyze(raw, model.DefaultSettings(), analyzer.Options{Enhanced: enhanced})
}

func TestBuild_Filenames(t *testing.T) {
	res := sampleResult(t, true)
	want := map[Kind]string{
		KindPerformance:     "amazon_keyword_performance.csv",
		KindWords:           "split_words_analysis.csv",
		KindRecommendations: "optimization_recommendations.csv",
		KindNegatives:       "negative_keywords.csv",
		KindBids:            "bid_adjustments.csv",
		KindDecisions:       "amazon_ppc_optimization_decisions.csv",
		KindASIN:            "asin_analysis.csv",
	}
	for k, name := range want {
		tbl, err := Build(k, res)
		require.NoError(t, err, k)
		assert.Equal(t, name, tbl.Filename)
	}

	_, err := Build("nope", res)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestBuild_DecisionsNeedEnhanced(t *testing.T) {
	_, err := Build(KindDecisions, sampleResult(t, false))
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestPerformance_KeepsOriginalColumns(t *testing.T) {
	recs := Performance(sampleResult(t, false).ProcessedData)
	require.Len(t, recs, 3)
	assert.Equal(t, "Main", recs[0].String("Portfolio"))
	assert.Equal(t, "patio cushions", recs[0].String("Customer Search Term"))
	assert.Equal(t, "patio cushions", recs[0].String(model.ColSearchTerm))
	v, _ := recs[1].Get(model.ColACOS)
	assert.Equal(t, model.InfiniteACOS, v)
	v, _ = recs[0].Get("isRecent")
	assert.Equal(t, true, v)
}

func TestRecommendations_TypeColumn(t *testing.T) {
	rec := model.Recommendations{
		ExactNegative:  []model.WordStat{{Word: "free", Clicks: 60}},
		PhraseNegative: []model.WordStat{{Word: "toy", Clicks: 4}},
		IncreaseBid:    []model.MetricRow{{SearchTerm: "patio cushions", Clicks: 40, ACOS: 10}},
		DecreaseBid:    []model.MetricRow{{SearchTerm: "free cushions", Clicks: 60, ACOS: 999}},
	}

	recs := Recommendations(rec)
	require.Len(t, recs, 4)
	types := make([]string, 0, 4)
	for _, r := range recs {
		types = append(types, r.String("type"))
	}
	assert.Equal(t, []string{TypeExactNegative, TypePhraseNegative, TypeIncreaseBid, TypeDecreaseBid}, types)
	assert.Equal(t, "free", recs[0].String("word"))
	assert.Equal(t, "patio cushions", recs[2].String("term"))
}

func TestNegatives(t *testing.T) {
	recs := Negatives(model.Recommendations{
		ExactNegative:  []model.WordStat{{Word: "free", Clicks: 60, Spend: 30}},
		PhraseNegative: []model.WordStat{{Word: "toy", Clicks: 4, ACOS: 400}},
	})
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"keyword", "clicks", "spend", "type"}, recs[0].Keys())
	assert.Equal(t, []string{"keyword", "clicks", "acos", "type"}, recs[1].Keys())
}

func TestBids_Adjustments(t *testing.T) {
	s := model.DefaultSettings()
	recs := Bids(model.Recommendations{
		IncreaseBid: []model.MetricRow{{SearchTerm: "a", ACOS: 10.5}},
		DecreaseBid: []model.MetricRow{
			{SearchTerm: "b", ACOS: 45},
			{SearchTerm: "c", ACOS: model.InfiniteACOS},
		},
	}, s)
	require.Len(t, recs, 3)
	// 1 - 10.5/21 = 0.5
	assert.Equal(t, "+50%", recs[0].String("recommendedAdjustment"))
	assert.Equal(t, "-50%", recs[1].String("recommendedAdjustment"))
	assert.Equal(t, "-50%", recs[2].String("recommendedAdjustment"))
	v, _ := recs[0].Get("targetAcos")
	assert.InDelta(t, 30, v.(float64), 1e-9)

	recs = Bids(model.Recommendations{DecreaseBid: []model.MetricRow{{SearchTerm: "d", ACOS: 36}}}, s)
	assert.Equal(t, "-20%", recs[0].String("recommendedAdjustment"))
}

func TestDecisions_CategoryColumn(t *testing.T) {
	d := model.Decisions{
		ByTier: map[model.Tier][]model.Decision{
			model.TierStrategicCore:      {{Term: "patio cushions", Action: model.ActionIncreaseBid}},
			model.TierStrategyAdjustment: {{Term: "pads", Action: model.ActionDecreaseBid}},
		},
		StopTargeting: []model.Decision{{Term: "free", Action: model.ActionNegativeExact}},
	}

	recs := Decisions(d)
	require.Len(t, recs, 3)
	assert.Equal(t, string(model.TierStrategicCore), recs[0].String("category"))
	assert.Equal(t, string(model.TierStrategyAdjustment), recs[1].String("category"))
	assert.Equal(t, model.DecisionGroupStopTargeting, recs[2].String("category"))
	assert.Equal(t, "negativeExact", recs[2].String("action"))
}

func TestASIN_FormatsSentinel(t *testing.T) {
	recs := ASIN([]model.AsinDetail{
		{ASIN: "B0ABC12XYZ", SearchTerms: []string{"x", "y"}, Clicks: 5, Spend: 5, ACOS: model.InfiniteACOS},
		{ASIN: "B0ZZZ99999", SearchTerms: []string{"z"}, Clicks: 10, Spend: 2.5, Sales: 10, Orders: 1, ACOS: 25, ConversionRate: 0.1},
	})
	require.Len(t, recs, 2)
	assert.Equal(t, "∞", recs[0].String("ACOS"))
	v, _ := recs[0].Get("Search Count")
	assert.Equal(t, 2, v)
	assert.Equal(t, "25.00%", recs[1].String("ACOS"))
	assert.Equal(t, "2.50", recs[1].String("Spend"))
	assert.Equal(t, "10.00%", recs[1].String("Conversion Rate"))
}
