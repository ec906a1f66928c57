package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumnRegistry(t *testing.T) {
	t.Parallel()

	reg := NewColumnRegistry(DefaultColumnAliases)

	tests := []struct {
		header string
		want   string
	}{
		{"Impressions", ColImpressions},
		{"IMPR.", ColImpressions},
		{"展示量", ColImpressions},
		{"Clicks", ColClicks},
		{"7 Day Total Orders (#)", ColOrders},
		{"Cost", ColSpend},
		{"7 Day Total Sales ", ColSales},
		{"Customer Search Term", ColSearchTerm},
		{"客户搜索词", ColSearchTerm},
		{"Total Advertising Cost of Sales (ACOS) ", ColACOS},
		{"Click-Thru Rate (CTR)", ColCTR},
		{"7 Day Conversion Rate", ColConversionRate},
		{"Cost Per Click (CPC)", ColCPC},
		{"Total Return on Advertising Spend (ROAS)", ColROAS},
		{"7 Day Total Units (#)", ColUnits},
		{"Match Type", ColMatchType},
		{"Campaign Name", ColCampaignName},
		{"Ad Group Name", ColAdGroupName},
		{"Date", ColDate},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Canonical(tt.header)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnRegistry_Unknown(t *testing.T) {
	t.Parallel()

	reg := NewColumnRegistry(DefaultColumnAliases)

	_, ok := reg.Canonical("Portfolio name")
	assert.False(t, ok)

	// The Amazon header needs its trailing space.
	_, ok = reg.Canonical("Total Advertising Cost of Sales (ACOS)")
	assert.False(t, ok)
}

func TestColumnRegistry_CanonicalNamesAreStable(t *testing.T) {
	t.Parallel()

	reg := NewColumnRegistry(DefaultColumnAliases)
	for _, col := range []string{ColImpressions, ColClicks, ColOrders, ColSpend, ColSales, ColSearchTerm, ColACOS, ColCTR} {
		got, ok := reg.Canonical(col)
		require.True(t, ok, col)
		assert.Equal(t, col, got)
	}
}

func TestColumnRegistry_LaterAliasWins(t *testing.T) {
	t.Parallel()

	reg := NewColumnRegistry([]ColumnAlias{
		{"kw", ColSearchTerm},
		{"KW", ColCampaignName},
	})
	got, ok := reg.Canonical("kw")
	require.True(t, ok)
	assert.Equal(t, ColCampaignName, got)
	assert.Equal(t, 1, reg.Len())
}
