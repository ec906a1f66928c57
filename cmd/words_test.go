package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ppc-cli/internal/model"
)

func sampleWords() []model.WordStat {
	return []model.WordStat{
		{Word: "patio", Occurrences: 2, Clicks: 48, Spend: 24, Sales: 140, Orders: 6, ACOS: 17.14},
		{Word: "cushions", Occurrences: 4, Clicks: 90, Spend: 63, Sales: 185, Orders: 8, ACOS: 34.05},
		{Word: "cheap", Occurrences: 1, Clicks: 30, Spend: 30, ACOS: model.InfiniteACOS},
	}
}

func TestWordsFrame(t *testing.T) {
	df := wordsFrame(sampleWords(), false)
	require.NoError(t, df.Err)
	assert.Equal(t, 3, df.Nrow())
	assert.NotContains(t, df.Names(), "Category")

	enh := wordsFrame(sampleWords(), true)
	require.NoError(t, enh.Err)
	assert.Contains(t, enh.Names(), "Category")
	assert.Contains(t, enh.Names(), "FinalWeight")
}

func TestSortWords(t *testing.T) {
	tests := []struct {
		by    string
		limit int
		want  []string
	}{
		{"clicks", 0, []string{"cushions", "patio", "cheap"}},
		{"clicks", 2, []string{"cushions", "patio"}},
		{"word", 0, []string{"cheap", "cushions", "patio"}},
		{"acos", 1, []string{"cheap"}},
		{"occurrences", 0, []string{"cushions", "patio", "cheap"}},
	}
	for _, tt := range tests {
		t.Run(tt.by, func(t *testing.T) {
			df, err := sortWords(wordsFrame(sampleWords(), false), tt.by, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, df.Col("Word").Records())
		})
	}
}

func TestSortWords_Errors(t *testing.T) {
	_, err := sortWords(wordsFrame(sampleWords(), false), "bogus", 0)
	assert.Error(t, err)

	_, err = sortWords(wordsFrame(sampleWords(), false), "weight", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--enhanced")

	_, err = sortWords(wordsFrame(sampleWords(), true), "weight", 0)
	assert.NoError(t, err)
}

func TestWordsCommand_DefaultSort(t *testing.T) {
	flag := wordsCmd.Flags().Lookup("sort")
	require.NotNil(t, flag)
	assert.Equal(t, "occurrences", flag.DefValue)
}

func TestWriteFrame(t *testing.T) {
	df, err := sortWords(wordsFrame(sampleWords(), false), "clicks", 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, df))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Word"))
	assert.Regexp(t, `^cushions\s+4\s+0\.00\s+90\.00\s+63\.00\s+185\.00`, lines[1])
}
