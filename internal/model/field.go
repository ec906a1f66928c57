package model

import "strings"

// Canonical column names every normalized report row may carry.
const (
	ColSearchTerm         = "Search Term"
	ColImpressions        = "Impressions"
	ColClicks             = "Clicks"
	ColOrders             = "Orders"
	ColSpend              = "Spend"
	ColSales              = "Sales"
	ColACOS               = "ACOS"
	ColCTR                = "CTR"
	ColConversionRate     = "ConversionRate"
	ColCPC                = "CPC"
	ColROAS               = "ROAS"
	ColUnits              = "Units"
	ColAdvertisedSKUUnits = "AdvertisedSKUUnits"
	ColOtherSKUUnits      = "OtherSKUUnits"
	ColAdvertisedSKUSales = "AdvertisedSKUSales"
	ColOtherSKUSales      = "OtherSKUSales"
	ColMatchType          = "MatchType"
	ColCampaignName       = "CampaignName"
	ColAdGroupName        = "AdGroupName"
	ColDate               = "Date"
)

// ColumnAlias maps one report header spelling onto a canonical column.
// Alias is compared after lowercasing, so it must be stored lowercase.
type ColumnAlias struct {
	Alias     string `json:"alias" yaml:"alias"`
	Canonical string `json:"canonical" yaml:"canonical"`
}

// DefaultColumnAliases lists the header spellings found in Amazon search term
// reports (US and CN seller central exports). Some Amazon headers carry a
// trailing space; it is part of the alias.
var DefaultColumnAliases = []ColumnAlias{
	{"impressions", ColImpressions},
	{"impr.", ColImpressions},
	{"impr", ColImpressions},
	{"展示量", ColImpressions},

	{"clicks", ColClicks},
	{"点击量", ColClicks},

	{"orders", ColOrders},
	{"订单", ColOrders},
	{"订单数", ColOrders},
	{"7 day total orders (#)", ColOrders},
	{"7 day total orders", ColOrders},

	{"spend", ColSpend},
	{"cost", ColSpend},
	{"花费", ColSpend},

	{"sales", ColSales},
	{"revenue", ColSales},
	{"销售额", ColSales},
	{"7 day total sales ", ColSales},

	{"search term", ColSearchTerm},
	{"search_term", ColSearchTerm},
	{"customer search term", ColSearchTerm},
	{"keyword", ColSearchTerm},
	{"客户搜索词", ColSearchTerm},
	{"搜索词", ColSearchTerm},

	{"total advertising cost of sales (acos) ", ColACOS},
	{"acos", ColACOS},

	{"click-thru rate (ctr)", ColCTR},
	{"ctr", ColCTR},

	{"7 day conversion rate", ColConversionRate},
	{"conversion rate", ColConversionRate},

	{"cost per click (cpc)", ColCPC},
	{"total return on advertising spend (roas)", ColROAS},
	{"7 day total units (#)", ColUnits},
	{"7 day advertised sku units (#)", ColAdvertisedSKUUnits},
	{"7 day other sku units (#)", ColOtherSKUUnits},
	{"7 day advertised sku sales", ColAdvertisedSKUSales},
	{"7 day other sku sales", ColOtherSKUSales},
	{"match type", ColMatchType},
	{"campaign name", ColCampaignName},
	{"ad group name", ColAdGroupName},

	{"date", ColDate},
	{"日期", ColDate},
}

// ColumnRegistry is an indexed, case-insensitive alias lookup.
type ColumnRegistry struct {
	Aliases []ColumnAlias
	byAlias map[string]string
}

// NewColumnRegistry indexes the given aliases. Later entries win on duplicate
// aliases.
func NewColumnRegistry(aliases []ColumnAlias) *ColumnRegistry {
	r := &ColumnRegistry{
		Aliases: aliases,
		byAlias: make(map[string]string, len(aliases)),
	}
	for _, a := range aliases {
		r.byAlias[strings.ToLower(a.Alias)] = a.Canonical
	}
	return r
}

// Canonical returns the canonical column for a header, matched
// case-insensitively. The header is not trimmed.
func (r *ColumnRegistry) Canonical(header string) (string, bool) {
	c, ok := r.byAlias[strings.ToLower(header)]
	return c, ok
}

// Len returns the number of distinct aliases.
func (r *ColumnRegistry) Len() int {
	return len(r.byAlias)
}
