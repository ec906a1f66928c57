package analyzer

import "github.com/sells-group/ppc-cli/internal/model"

// Summarize totals the rows and derives ratios from the totals.
func Summarize(rows []model.MetricRow) model.Summary {
	var s model.Summary
	for _, r := range rows {
		s.TotalClicks += r.Clicks
		s.TotalSpend += r.Spend
		s.TotalSales += r.Sales
		s.TotalOrders += r.Orders
		s.TotalImpressions += r.Impressions
	}
	s.AverageACOS = model.ACOS(s.TotalSpend, s.TotalSales)
	s.AverageCPC = model.Ratio(s.TotalSpend, s.TotalClicks)
	s.ClickThroughRate = model.Ratio(s.TotalClicks, s.TotalImpressions)
	s.ConversionRate = model.Ratio(s.TotalOrders, s.TotalClicks)
	s.ROAS = model.Ratio(s.TotalSales, s.TotalSpend)
	s.ProcessedKeywords = len(rows)
	return s
}

// trend returns the percentage change from previous to current, or 0 when
// previous is 0.
func trend(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// CompareTimeWindows splits rows on IsRecent and compares the two periods.
func CompareTimeWindows(rows []model.MetricRow) model.TimeComparison {
	var recent, older []model.MetricRow
	for _, r := range rows {
		if r.IsRecent {
			recent = append(recent, r)
		} else {
			older = append(older, r)
		}
	}
	cur := Summarize(recent)
	prev := Summarize(older)
	return model.TimeComparison{
		Current:  cur,
		Previous: prev,
		Trends: model.Trends{
			ACOSTrend:       trend(cur.AverageACOS, prev.AverageACOS),
			CTRTrend:        trend(cur.ClickThroughRate, prev.ClickThroughRate),
			ConversionTrend: trend(cur.ConversionRate, prev.ConversionRate),
			CPCTrend:        trend(cur.AverageCPC, prev.AverageCPC),
		},
	}
}
