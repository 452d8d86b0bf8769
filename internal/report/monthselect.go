package report

import (
	"sort"

	"attendpulse/pkg/contracts/domain"
)

// MonthFormat is the yyyy-MM layout used for month keys.
const MonthFormat = "2006-01"

// SelectMonth picks the month to display. Resolution order: the
// requested month when present in the available set, then the current
// calendar month, then the most recent month with data. The second
// return value is false only when no months are available at all,
// which is the terminal no-data condition for the pipeline.
func SelectMonth(requested, current string, available []string) (string, bool) {
	if len(available) == 0 {
		return "", false
	}

	set := make(map[string]struct{}, len(available))
	for _, m := range available {
		set[m] = struct{}{}
	}

	if requested != "" {
		if _, ok := set[requested]; ok {
			return requested, true
		}
	}
	if _, ok := set[current]; ok {
		return current, true
	}

	// Most recent month; yyyy-MM keys order lexically the same as
	// chronologically.
	latest := available[0]
	for _, m := range available[1:] {
		if m > latest {
			latest = m
		}
	}
	return latest, true
}

// AvailableMonths derives the sorted set of yyyy-MM prefixes present in
// the normalized rows. It runs over the whole table, before any month
// filtering.
func AvailableMonths(rows []domain.NormalizedRow) []string {
	set := make(map[string]struct{})
	for _, row := range rows {
		if m := row.Month(); m != "" {
			set[m] = struct{}{}
		}
	}

	months := make([]string, 0, len(set))
	for m := range set {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}
