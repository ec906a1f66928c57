// Package asin separates product-targeted search terms (ones that contain an
// Amazon product ID) from keyword search terms and aggregates them per ASIN.
package asin

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/ppc-cli/internal/model"
)

// asinRe matches a whole-word ASIN: B0 followed by eight alphanumerics.
var asinRe = regexp.MustCompile(`\b[bB]0[a-zA-Z0-9]{8}\b`)

// Extract returns the first ASIN in a search term, upper-cased.
func Extract(term string) (string, bool) {
	m := asinRe.FindString(term)
	if m == "" {
		return "", false
	}
	return strings.ToUpper(m), true
}

// Classify splits rows into ASIN and non-ASIN terms and aggregates every
// ASIN term. Details are sorted by clicks descending.
func Classify(rows []model.MetricRow) model.AsinAnalysis {
	out := model.AsinAnalysis{
		AsinTerms:    []model.AsinTerm{},
		NonAsinTerms: []model.MetricRow{},
	}
	details := make(map[string]*model.AsinDetail)
	var order []string
	perf := &out.AsinPerformance

	for _, r := range rows {
		id, ok := Extract(r.SearchTerm)
		if !ok {
			out.NonAsinTerms = append(out.NonAsinTerms, r)
			continue
		}
		out.AsinTerms = append(out.AsinTerms, model.AsinTerm{MetricRow: r, ASIN: id})

		perf.TotalClicks += r.Clicks
		perf.TotalSpend += r.Spend
		perf.TotalSales += r.Sales
		perf.TotalOrders += r.Orders
		perf.TotalImpressions += r.Impressions

		d, ok := details[id]
		if !ok {
			d = &model.AsinDetail{ASIN: id, SearchTerms: []string{}}
			details[id] = d
			order = append(order, id)
		}
		d.SearchTerms = append(d.SearchTerms, r.SearchTerm)
		d.Clicks += r.Clicks
		d.Spend += r.Spend
		d.Sales += r.Sales
		d.Orders += r.Orders
		d.Impressions += r.Impressions
	}

	perf.UniqueAsinCount = len(details)
	perf.AsinDetails = make([]model.AsinDetail, 0, len(order))
	for _, id := range order {
		d := *details[id]
		d.ACOS = model.ACOS(d.Spend, d.Sales)
		d.ConversionRate = model.Ratio(d.Orders, d.Clicks)
		perf.AsinDetails = append(perf.AsinDetails, d)
	}
	sort.SliceStable(perf.AsinDetails, func(i, j int) bool {
		return perf.AsinDetails[i].Clicks > perf.AsinDetails[j].Clicks
	})
	return out
}
