// Package values provides the shared value parsers used by rule extraction
// and compliance evaluation: multi-format date parsing, currency/number
// normalization, and truthy flag parsing.
//
// All parsers are pure functions operating on raw cell text. They never
// panic; callers decide whether a parse failure means "skip" (evaluation)
// or "fall back to zero" (extraction).
package values

import (
	"strconv"
	"strings"
	"time"
)

// dateFormats are tried in order: ISO, day/month/year with slashes,
// day/month/year with dashes.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// ParseDate parses a date cell trying each supported format in order.
// It returns false if the value is empty or matches no format.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysBetween returns the whole-day difference end minus start.
// Both times are expected to be bare dates (midnight).
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}

// ParseAmount normalizes and parses a monetary or numeric cell. Thousands
// separators are dropped and any non-numeric prefix (currency symbols,
// stray whitespace) is stripped before parsing. Returns false when no
// number remains.
func ParseAmount(value string) (float64, bool) {
	t := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	// Trim a non-numeric prefix like "$" or "EUR ".
	start := 0
	for start < len(t) {
		c := t[start]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' {
			break
		}
		start++
	}
	t = t[start:]
	if t == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AmountOrZero parses like ParseAmount but falls back to zero on failure.
// Used by the extractor, where a malformed amount must not abort extraction.
func AmountOrZero(value string) float64 {
	f, _ := ParseAmount(value)
	return f
}

// FormatAmount renders an amount without a trailing ".0" for whole values,
// matching how amounts read in rule descriptions and evidence text.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// truthy is the accepted set of affirmative flag values.
var truthy = map[string]struct{}{
	"yes":  {},
	"true": {},
	"1":    {},
	"y":    {},
}

// IsTruthy reports whether a flag cell, lower-cased and trimmed, is one of
// the accepted affirmative values (yes, true, 1, y).
func IsTruthy(value string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// Normalize lower-cases and trims a cell for case-insensitive comparison.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
