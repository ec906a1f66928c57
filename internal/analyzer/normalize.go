// Package analyzer turns Amazon search term report rows into metrics, word
// statistics and bid/negative-keyword recommendations.
package analyzer

import (
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/ppc-cli/internal/model"
)

// Normalizer reconciles report headers onto the canonical column set.
type Normalizer struct {
	registry *model.ColumnRegistry
}

// NewNormalizer builds a Normalizer over the given aliases. A nil slice uses
// model.DefaultColumnAliases.
func NewNormalizer(aliases []model.ColumnAlias) *Normalizer {
	if aliases == nil {
		aliases = model.DefaultColumnAliases
	}
	return &Normalizer{registry: model.NewColumnRegistry(aliases)}
}

// Normalize returns one canonical row per input row. Recognized headers are
// copied to their canonical name; the original column is always kept, as is
// every unrecognized column. Inputs are not modified.
func (n *Normalizer) Normalize(rows []*model.RawRow) []*model.Row {
	out := make([]*model.Row, 0, len(rows))
	for _, raw := range rows {
		out = append(out, n.NormalizeRow(raw))
	}
	return out
}

// NormalizeRow normalizes a single row.
func (n *Normalizer) NormalizeRow(raw *model.RawRow) *model.Row {
	row := raw.Clone()
	for _, key := range raw.Keys() {
		if key == "" {
			continue
		}
		canonical, ok := n.lookup(key)
		if !ok {
			continue
		}
		v, _ := raw.Get(key)
		row.Set(canonical, v)
	}
	return row
}

// lookup tries the header as written, then its NFKC form so that full-width
// punctuation from CJK spreadsheets ("（ACOS）") matches the ASCII alias.
func (n *Normalizer) lookup(key string) (string, bool) {
	if c, ok := n.registry.Canonical(key); ok {
		return c, true
	}
	if folded := norm.NFKC.String(key); folded != key {
		return n.registry.Canonical(folded)
	}
	return "", false
}

// hasMetrics reports whether a canonical row carries at least one of the
// counters that make it analysable.
func hasMetrics(row *model.Row) bool {
	return row.Has(model.ColImpressions) || row.Has(model.ColClicks) || row.Has(model.ColSpend)
}

// FilterRows drops rows with no impressions, clicks or spend column.
func FilterRows(rows []*model.Row) []*model.Row {
	out := make([]*model.Row, 0, len(rows))
	for _, r := range rows {
		if hasMetrics(r) {
			out = append(out, r)
		}
	}
	return out
}
