package analyzer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/ppc-cli/internal/model"
)

// MaxDroppedWordLength is the longest token the splitter discards.
const MaxDroppedWordLength = 2

// splitTerm lowercases a search term and splits it on single spaces. Empty
// tokens from repeated spaces are kept so positions match the raw term.
func splitTerm(term string) []string {
	return strings.Split(strings.ToLower(term), " ")
}

// keepWord reports whether a token is long enough to analyse.
func keepWord(w string) bool {
	return utf8.RuneCountInString(w) > MaxDroppedWordLength
}

// Tokenize returns the analysable words of a search term in order,
// duplicates included.
func Tokenize(term string) []string {
	var out []string
	for _, w := range splitTerm(term) {
		if keepWord(w) {
			out = append(out, w)
		}
	}
	return out
}

// termWordCount counts space-separated parts of the raw term, the measure
// the funnel and relevance rules use.
func termWordCount(term string) int {
	return len(strings.Split(term, " "))
}

var positions = []model.Position{model.PositionFirst, model.PositionMiddle, model.PositionLast}

func positionOf(i, n int) model.Position {
	switch {
	case i == 0:
		return model.PositionFirst
	case i == n-1:
		return model.PositionLast
	default:
		return model.PositionMiddle
	}
}

type wordAcc struct {
	stat     model.WordStat
	posOrder []model.Position
}

// SplitWords aggregates every analysable word across rows, sorted by
// occurrences descending. With positional set, each word also carries its
// position distribution.
func SplitWords(rows []model.MetricRow, positional bool) []model.WordStat {
	acc := make(map[string]*wordAcc)
	var order []string

	for _, r := range rows {
		if r.SearchTerm == "" {
			continue
		}
		words := splitTerm(r.SearchTerm)
		for i, w := range words {
			if !keepWord(w) {
				continue
			}
			a, ok := acc[w]
			if !ok {
				a = &wordAcc{stat: model.WordStat{Word: w}}
				if positional {
					a.stat.Positions = make(map[model.Position]int, 3)
				}
				acc[w] = a
				order = append(order, w)
			}
			a.stat.Impressions += r.Impressions
			a.stat.Clicks += r.Clicks
			a.stat.Orders += r.Orders
			a.stat.Spend += r.Spend
			a.stat.Sales += r.Sales
			a.stat.Occurrences++

			if positional {
				p := positionOf(i, len(words))
				if _, seen := a.stat.Positions[p]; !seen {
					a.posOrder = append(a.posOrder, p)
				}
				a.stat.Positions[p]++
				a.stat.TotalPositions++
			}
		}
	}

	out := make([]model.WordStat, 0, len(order))
	for _, w := range order {
		a := acc[w]
		s := a.stat
		s.CTR = model.Ratio(s.Clicks, s.Impressions)
		s.ConvRate = model.Ratio(s.Orders, s.Clicks)
		s.ACOS = model.ACOS(s.Spend, s.Sales)
		s.Reliability = model.Reliability(s.Clicks)
		if positional {
			s.PositionProbabilities = make(map[model.Position]float64, len(s.Positions))
			for p, n := range s.Positions {
				s.PositionProbabilities[p] = float64(n) / float64(s.TotalPositions)
			}
			s.MainPosition = mainPosition(a.posOrder, s.PositionProbabilities)
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Occurrences > out[j].Occurrences
	})
	return out
}

// mainPosition picks the most probable position. On a tie the position
// encountered later wins.
func mainPosition(order []model.Position, probs map[model.Position]float64) model.Position {
	if len(order) == 0 {
		return ""
	}
	best := order[0]
	for _, p := range order[1:] {
		if !(probs[best] > probs[p]) {
			best = p
		}
	}
	return best
}

// WeightWords fills frequency/position weights and the efficiency category.
// totalRows is the number of processed rows the words came from.
func WeightWords(words []model.WordStat, totalRows int) []model.WordStat {
	out := make([]model.WordStat, len(words))
	for i, w := range words {
		if totalRows > 0 {
			w.FrequencyWeight = float64(w.Occurrences) / float64(totalRows)
		}
		w.PositionWeight = 0
		for _, p := range positions {
			w.PositionWeight += w.PositionProbabilities[p] * model.PositionMultipliers[p]
		}
		w.FinalWeight = w.FrequencyWeight * w.PositionWeight
		w.Category = Categorize(w)
		out[i] = w
	}
	return out
}

// Categorize classifies a word by ACOS once it has enough clicks to be
// reliable.
func Categorize(w model.WordStat) model.WordCategory {
	switch {
	case w.Clicks <= 0:
		return model.CategoryNoClicks
	case w.Reliability <= 0.5:
		return model.CategoryUndetermined
	case w.ACOS < 10:
		return model.CategorySuperEfficient
	case w.ACOS < 15:
		return model.CategoryEfficient
	case w.ACOS < 25:
		return model.CategoryAdequate
	case w.ACOS < 40:
		return model.CategoryMarginal
	default:
		return model.CategoryInefficient
	}
}
