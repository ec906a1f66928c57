package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ppc-cli/internal/model"
)

func TestNormalize_MapsAliasesAndKeepsOriginals(t *testing.T) {
	t.Parallel()

	raw := rawRow(
		"Customer Search Term", "blue widget",
		"Impressions", 100.0,
		"点击量", 10.0,
		"7 Day Total Sales ", 50.0,
		"Portfolio name", "Main",
	)

	rows := NewNormalizer(nil).Normalize([]*model.RawRow{raw})
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "blue widget", row.String(model.ColSearchTerm))
	assert.Equal(t, "blue widget", row.String("Customer Search Term"))
	v, ok := row.Get(model.ColClicks)
	require.True(t, ok)
	assert.Equal(t, 10.0, v)
	assert.True(t, row.Has("点击量"))
	v, _ = row.Get(model.ColSales)
	assert.Equal(t, 50.0, v)
	assert.Equal(t, "Main", row.String("Portfolio name"))
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	raw := rawRow("clicks", 3.0)
	_ = NewNormalizer(nil).Normalize([]*model.RawRow{raw})
	assert.Equal(t, []string{"clicks"}, raw.Keys())
}

func TestNormalize_FullWidthPunctuation(t *testing.T) {
	t.Parallel()

	raw := rawRow("Cost Per Click （CPC）", 1.25)
	row := NewNormalizer(nil).NormalizeRow(raw)

	v, ok := row.Get(model.ColCPC)
	require.True(t, ok)
	assert.Equal(t, 1.25, v)
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	raw := rawRow(
		"Search Term", "patio cushions",
		"Impressions", 10.0,
		"Clicks", 2.0,
		"Spend", 1.5,
		"Sales", 0.0,
		"Orders", 0.0,
		"ACOS", "25%",
		"Mystery", "x",
	)
	n := NewNormalizer(nil)
	once := n.NormalizeRow(raw)
	twice := n.NormalizeRow(once)

	assert.Equal(t, once.Keys(), twice.Keys())
	assert.Equal(t, once.Map(), twice.Map())
}

func TestNormalize_LaterHeaderWins(t *testing.T) {
	t.Parallel()

	raw := rawRow("Cost", 1.0, "Spend", 2.0)
	row := NewNormalizer(nil).NormalizeRow(raw)
	v, _ := row.Get(model.ColSpend)
	assert.Equal(t, 2.0, v)
}

func TestNormalize_CustomAliases(t *testing.T) {
	t.Parallel()

	n := NewNormalizer([]model.ColumnAlias{{Alias: "klicks", Canonical: model.ColClicks}})
	row := n.NormalizeRow(rawRow("Klicks", 4.0, "clicks", 9.0))
	v, _ := row.Get(model.ColClicks)
	assert.Equal(t, 4.0, v)
}

func TestFilterRows(t *testing.T) {
	t.Parallel()

	rows := NewNormalizer(nil).Normalize([]*model.RawRow{
		rawRow("search term", "a", "impressions", 1.0),
		rawRow("search term", "b", "clicks", 0.0),
		rawRow("search term", "c", "cost", "1.20"),
		rawRow("search term", "d", "sales", 5.0),
		rawRow("search term", "e", "impressions", nil),
	})

	got := FilterRows(rows)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].String(model.ColSearchTerm))
	assert.Equal(t, "b", got[1].String(model.ColSearchTerm))
	assert.Equal(t, "c", got[2].String(model.ColSearchTerm))
}
