package analyzer

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/model"
)

// DefaultRecentWindow is how old a dated row may be and still count as
// recent.
const DefaultRecentWindow = 7 * 24 * time.Hour

// Calculator derives per-row metrics.
type Calculator struct {
	// Now returns the reference time for recency. Defaults to time.Now.
	Now func() time.Time
	// RecentWindow defaults to DefaultRecentWindow.
	RecentWindow time.Duration
}

// Calculate coerces counters and derives CTR, conversion rate, ACOS, CPC and
// ROAS for every row. No row is dropped.
func (c Calculator) Calculate(rows []*model.Row) []model.MetricRow {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	window := c.RecentWindow
	if window <= 0 {
		window = DefaultRecentWindow
	}

	out := make([]model.MetricRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, calculateRow(r, now, window))
	}
	return out
}

func calculateRow(r *model.Row, now time.Time, window time.Duration) model.MetricRow {
	get := func(col string) any {
		v, _ := r.Get(col)
		return v
	}

	m := model.MetricRow{
		SearchTerm:   r.String(model.ColSearchTerm),
		Impressions:  numberOrZero(get(model.ColImpressions)),
		Clicks:       numberOrZero(get(model.ColClicks)),
		Orders:       numberOrZero(get(model.ColOrders)),
		Spend:        numberOrZero(get(model.ColSpend)),
		Sales:        numberOrZero(get(model.ColSales)),
		MatchType:    r.String(model.ColMatchType),
		CampaignName: r.String(model.ColCampaignName),
		AdGroupName:  r.String(model.ColAdGroupName),
		IsRecent:     true,
	}

	m.CTR = model.Ratio(m.Clicks, m.Impressions)
	if r.Has(model.ColCTR) {
		if v, ok := parsePercent(get(model.ColCTR)); ok {
			m.CTR = v
		}
	}

	m.ConversionRate = model.Ratio(m.Orders, m.Clicks)
	if r.Has(model.ColConversionRate) {
		if v, ok := parsePercent(get(model.ColConversionRate)); ok {
			m.ConversionRate = v
		}
	}

	m.ACOS = model.ACOS(m.Spend, m.Sales)
	if r.Has(model.ColACOS) {
		if v, ok := parseACOS(get(model.ColACOS)); ok {
			m.ACOS = v
		}
	}

	m.CPC = model.Ratio(m.Spend, m.Clicks)
	if r.Has(model.ColCPC) {
		if v, ok := parseNumber(get(model.ColCPC)); ok && v >= 0 {
			m.CPC = v
		}
	}

	m.ROAS = model.Ratio(m.Sales, m.Spend)

	if r.Has(model.ColDate) {
		if d, ok := parseDate(get(model.ColDate)); ok {
			m.Date = &d
			m.IsRecent = now.Sub(d) <= window
		} else {
			zap.L().Debug("analyzer: unparseable date, treating row as recent",
				zap.String("search_term", m.SearchTerm),
				zap.String("date", r.String(model.ColDate)),
			)
		}
	}

	fields := r.Clone()
	fields.Set(model.ColClicks, m.Clicks)
	fields.Set(model.ColImpressions, m.Impressions)
	fields.Set(model.ColSpend, m.Spend)
	fields.Set(model.ColOrders, m.Orders)
	fields.Set(model.ColSales, m.Sales)
	fields.Set(model.ColCTR, m.CTR)
	fields.Set(model.ColConversionRate, m.ConversionRate)
	fields.Set(model.ColACOS, m.ACOS)
	fields.Set(model.ColCPC, m.CPC)
	fields.Set(model.ColROAS, m.ROAS)
	m.Fields = fields

	return m
}
