// Package csvdate evaluates the small set of date-function expressions
// that appear as literal strings in tenant CSV seed data: "datenow()" and
// "dateadd(N,unit)". Recovered from the original CSV loaders, which
// resolved these against wall-clock time before inserting seed rows;
// carried forward here as a pure, easily unit-tested function rather than
// folded into the loader itself.
package csvdate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateAddPattern = regexp.MustCompile(`^dateadd\((\d+),\s*(days?|months?|years?)\)$`)

// Eval resolves value against now if it matches a supported date function,
// returning ok=false for any string that is not one (the caller then
// treats value as a literal field, unchanged).
//
// Months are approximated as 30 days and years as 365 days, matching the
// original loader's approximation rather than calendar-accurate
// arithmetic — seed data does not need the latter.
func Eval(value string, now time.Time) (result time.Time, ok bool) {
	v := strings.ToLower(strings.TrimSpace(value))

	if v == "datenow()" {
		return now, true
	}

	m := dateAddPattern.FindStringSubmatch(v)
	if m == nil {
		return time.Time{}, false
	}

	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	switch {
	case strings.HasPrefix(m[2], "day"):
		return now.AddDate(0, 0, amount), true
	case strings.HasPrefix(m[2], "month"):
		return now.AddDate(0, 0, amount*30), true
	case strings.HasPrefix(m[2], "year"):
		return now.AddDate(0, 0, amount*365), true
	default:
		return time.Time{}, false
	}
}

// EvalField processes one CSV field: if it is a recognised date function
// it is replaced with its RFC3339 resolution, otherwise it is returned
// unchanged.
func EvalField(value string, now time.Time) string {
	if value == "" {
		return value
	}
	if t, ok := Eval(value, now); ok {
		return t.Format(time.RFC3339)
	}
	return value
}

// EvalRow applies EvalField to every value in row, returning a new map;
// row itself is left untouched.
func EvalRow(row map[string]string, now time.Time) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[k] = EvalField(v, now)
	}
	return out
}

// Examples documents the supported function forms, mirroring the
// original loader's DATE_FUNCTION_EXAMPLES table.
var Examples = map[string]string{
	"datenow()":        "current date and time",
	"dateadd(1,day)":   "current date + 1 day",
	"dateadd(7,days)":  "current date + 7 days",
	"dateadd(1,month)": "current date + 1 month",
	"dateadd(1,year)":  "current date + 1 year",
}
