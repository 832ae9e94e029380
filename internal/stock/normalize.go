package stock

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

const (
	isoLayout           = "2006-01-02"
	manufacturingMarker = "FAB."
)

// dateRule rewrites one recognised date shape into ISO form. convert returns
// false when the captured parts do not form a real calendar date.
type dateRule struct {
	name    string
	pattern *regexp.Regexp
	convert func(parts []string) (string, bool)
}

// dateRules are evaluated in order and the first matching pattern decides the
// outcome, even when its conversion fails.
var dateRules = []dateRule{
	{
		name:    "iso",
		pattern: regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`),
		convert: func(p []string) (string, bool) { return isoDate(p[1], p[2], p[3]) },
	},
	{
		name:    "day/month/year",
		pattern: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`),
		convert: func(p []string) (string, bool) { return isoDate(p[3], p[2], p[1]) },
	},
	{
		name:    "month/short-year",
		pattern: regexp.MustCompile(`^(\d{1,2})/(\d{2})$`),
		convert: func(p []string) (string, bool) { return isoDate("20"+p[2], p[1], "1") },
	},
	{
		name:    "month/year",
		pattern: regexp.MustCompile(`^(\d{1,2})/(\d{4})$`),
		convert: func(p []string) (string, bool) { return isoDate(p[2], p[1], "1") },
	},
}

var (
	pairsSuffix = regexp.MustCompile(`pares?`)
	leadingInt  = regexp.MustCompile(`^[+-]?\d+`)
)

// NormalizeDate converts a hand-typed expiration date into YYYY-MM-DD or the
// indeterminate sentinel.
func NormalizeDate(raw any) string {
	clean := strings.ToUpper(strings.TrimSpace(text(raw)))
	if clean == "" {
		return models.DateIndeterminate
	}
	switch clean {
	case "X", "IND", models.DateIndeterminate:
		return models.DateIndeterminate
	}
	if strings.Contains(clean, manufacturingMarker) {
		return models.DateIndeterminate
	}

	for _, rule := range dateRules {
		parts := rule.pattern.FindStringSubmatch(clean)
		if parts == nil {
			continue
		}
		if date, ok := rule.convert(parts); ok {
			return date
		}
		return models.DateIndeterminate
	}

	return models.DateIndeterminate
}

// NormalizeQuantity strips box/pair unit suffixes and keeps the leading integer.
// Anything without a leading integer becomes "0".
func NormalizeQuantity(raw any) string {
	clean := strings.ToLower(text(raw))
	clean = strings.ReplaceAll(clean, "cx", "")
	clean = pairsSuffix.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)

	value, ok := parseLeadingInt(clean)
	if !ok {
		return "0"
	}
	return strconv.FormatInt(value, 10)
}

// NormalizeCategory uppercases the label, falling back to the no-category sentinel.
func NormalizeCategory(raw any) string {
	clean := strings.ToUpper(strings.TrimSpace(text(raw)))
	if clean == "" {
		return models.CategoryNone
	}
	return clean
}

// NormalizeID removes every whitespace rune, falling back to the no-id sentinel.
func NormalizeID(raw any) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text(raw))
	if clean == "" {
		return models.IDNone
	}
	return clean
}

// NormalizeName trims the item name.
func NormalizeName(raw any) string {
	return strings.TrimSpace(text(raw))
}

// NormalizeObservation trims free-text notes.
func NormalizeObservation(raw any) string {
	return strings.TrimSpace(text(raw))
}

// ParseQuantity reads a normalized quantity, treating anything unparseable as 0.
func ParseQuantity(quantity string) int64 {
	value, ok := parseLeadingInt(strings.TrimSpace(quantity))
	if !ok {
		return 0
	}
	return value
}

func parseLeadingInt(s string) (int64, bool) {
	digits := leadingInt.FindString(s)
	if digits == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func isoDate(year, month, day string) (string, bool) {
	candidate := year + "-" + padTwo(month) + "-" + padTwo(day)
	if _, err := time.Parse(isoLayout, candidate); err != nil {
		return "", false
	}
	return candidate, true
}

func padTwo(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// text coerces a loosely typed document value into a string.
func text(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.UTC().Format(isoLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.UTC().Format(isoLayout)
	}
	return cast.ToString(raw)
}
