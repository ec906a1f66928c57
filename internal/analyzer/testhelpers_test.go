package analyzer

import "github.com/sells-group/ppc-cli/internal/model"

// rawRow builds a raw row from alternating key/value pairs, keeping order.
func rawRow(kv ...any) *model.RawRow {
	r := model.NewRow(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

// metricRow builds a MetricRow with ACOS and ratios derived from counters.
func metricRow(term string, impressions, clicks, spend, sales, orders float64) model.MetricRow {
	return model.MetricRow{
		SearchTerm:     term,
		Impressions:    impressions,
		Clicks:         clicks,
		Spend:          spend,
		Sales:          sales,
		Orders:         orders,
		CTR:            model.Ratio(clicks, impressions),
		ConversionRate: model.Ratio(orders, clicks),
		ACOS:           model.ACOS(spend, sales),
		CPC:            model.Ratio(spend, clicks),
		ROAS:           model.Ratio(sales, spend),
		IsRecent:       true,
	}
}
