package report

import (
	"sort"

	"attendpulse/pkg/contracts/domain"
)

// BuildSpecialEvents flattens the catch-all bucket into a single list
// sorted ascending by the row's underlying ISO date. The sort is
// stable: rows sharing a date keep their input order. The ISO sort key
// stays internal; the emitted Date field is the display text verbatim.
func BuildSpecialEvents(rows []domain.NormalizedRow) []domain.SpecialEvent {
	type keyed struct {
		event   domain.SpecialEvent
		sortKey string
	}

	entries := make([]keyed, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, keyed{
			event: domain.SpecialEvent{
				Date:        row.Row.DateText,
				Day:         row.Row.Day,
				Location:    row.Row.Location,
				EventDetail: row.Row.Detail,
			},
			sortKey: row.Date,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].sortKey < entries[j].sortKey
	})

	events := make([]domain.SpecialEvent, 0, len(entries))
	for _, e := range entries {
		events = append(events, e.event)
	}
	return events
}
