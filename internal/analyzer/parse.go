package analyzer

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// parseNumber coerces a cell to a float the way a lenient spreadsheet user
// expects: numbers pass through, strings yield their longest numeric prefix
// ("12 clicks" is 12), anything else is not a number.
func parseNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		return parseNumericPrefix(x)
	default:
		return 0, false
	}
}

// numberOrZero returns parseNumber(v) clamped to >= 0, with 0 for anything
// unparseable.
func numberOrZero(v any) float64 {
	f, ok := parseNumber(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumericPrefix parses the longest leading decimal number in s after
// trimming whitespace. It accepts an optional sign, digits, one decimal point
// and an exponent.
func parseNumericPrefix(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := false
	for i < len(s) && isDigit(s[i]) {
		i++
		digits = true
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits = true
		}
	}
	if !digits {
		return 0, false
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// parsePercent reads a rate cell. Strings are percentages ("5%" or "5") and
// are divided by 100; numbers are taken to be fractions already.
func parsePercent(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, ok := parseNumericPrefix(strings.ReplaceAll(s, "%", ""))
		if !ok {
			return 0, false
		}
		return f / 100, true
	}
	return parseNumber(v)
}

// parseACOS reads a raw ACOS cell into a percentage. Strings are already
// percentages; numbers strictly between 0 and 1 are fractions and get scaled.
func parseACOS(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, ok := parseNumericPrefix(strings.ReplaceAll(s, "%", ""))
		if !ok || f < 0 {
			return 0, false
		}
		return f, true
	}
	f, ok := parseNumber(v)
	if !ok || f < 0 {
		return 0, false
	}
	if f > 0 && f < 1 {
		return f * 100, true
	}
	return f, true
}

// excelEpoch is day zero of the 1900 date system as spreadsheets count it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"2006年1月2日",
}

// parseDate reads a date cell: time.Time values, spreadsheet serial numbers
// and the common report layouts.
func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		f, ok := parseNumber(v)
		if !ok || f <= 0 {
			return time.Time{}, false
		}
		days := math.Floor(f)
		frac := f - days
		t := excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * float64(24*time.Hour)))
		return t, true
	}
}
