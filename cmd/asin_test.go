package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ppc-cli/internal/model"
)

func TestSortedAsinDetails(t *testing.T) {
	in := []model.AsinDetail{
		{ASIN: "B0AAAAAAA1", Clicks: 20, Spend: 5},
		{ASIN: "B0AAAAAAA2", Clicks: 3, Spend: 12},
		{ASIN: "B0AAAAAAA3", Clicks: 9, Spend: 8},
	}

	tests := []struct {
		by   string
		want []string
	}{
		{"clicks", []string{"B0AAAAAAA1", "B0AAAAAAA3", "B0AAAAAAA2"}},
		{"spend", []string{"B0AAAAAAA2", "B0AAAAAAA3", "B0AAAAAAA1"}},
	}
	for _, tt := range tests {
		t.Run(tt.by, func(t *testing.T) {
			got := sortedAsinDetails(in, tt.by)
			require.Len(t, got, 3)
			for i, asin := range tt.want {
				assert.Equal(t, asin, got[i].ASIN)
			}
		})
	}
	assert.Equal(t, "B0AAAAAAA1", in[0].ASIN, "input left untouched")
}

func TestSortedAsinDetails_MatchesExportOrder(t *testing.T) {
	dir := setTestConfig(t)
	path := writeReport(t, dir, "report.csv", `Search Term,Clicks,Spend,Sales
B0AAAAAAA1 cover,2,9,0
B0AAAAAAA2 cover,15,3,10
`)
	res, err := analyzeReport(context.Background(), path, model.DefaultSettings(), false)
	require.NoError(t, err)

	details := res.ASIN.AsinPerformance.AsinDetails
	assert.Equal(t, details, sortedAsinDetails(details, "clicks"))
	assert.Equal(t, "B0AAAAAAA2", details[0].ASIN)
}

func TestASINCommand_SortFlag(t *testing.T) {
	flag := asinCmd.Flags().Lookup("sort")
	require.NotNil(t, flag)
	assert.Equal(t, "clicks", flag.DefValue)
}

func TestWriteASINTable(t *testing.T) {
	dir := setTestConfig(t)
	path := writeReport(t, dir, "report.csv", reportCSV)
	res, err := analyzeReport(context.Background(), path, model.DefaultSettings(), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	details := sortedAsinDetails(res.ASIN.AsinPerformance.AsinDetails, "clicks")
	require.NoError(t, writeASINTable(&buf, res.ASIN, details))

	out := buf.String()
	assert.Regexp(t, `Unique ASINs\s+1\n`, out)
	assert.Regexp(t, `B0ABC12XYZ\s+1\s+12\s+\$9\.00\s+\$45\.00`, out)
}

func TestWriteASINTable_None(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeASINTable(&buf, model.AsinAnalysis{}, nil))
	assert.Equal(t, "No ASIN-targeted search terms found.\n", buf.String())
}
