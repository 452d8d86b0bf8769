package report

import (
	"log/slog"
	"math"
	"strings"
	"time"
)

// CanonicalDateFormat is the canonical yyyy-MM-dd date layout every
// normalized date is emitted in.
const CanonicalDateFormat = "2006-01-02"

// serial day 0; day 1 of the spreadsheet serial calendar is 1899-12-31
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial values resolving outside this range are rejected as garbage
// rather than silently accepted.
const (
	minSaneYear = 1900
	maxSaneYear = 2100
)

// msTimestampThreshold: numeric values at or above this cannot be day
// serials and are reinterpreted as Unix millisecond timestamps.
const msTimestampThreshold = 1e12

// dateLayouts is the ordered parser chain for string cells. The
// canonical layout goes first; the first layout producing a valid
// calendar date wins.
var dateLayouts = []string{
	CanonicalDateFormat,
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
}

// fallbackLayouts is the last-resort generic parse attempted after the
// prioritized chain.
var fallbackLayouts = []string{
	time.RFC3339,
	"Jan 2, 2006",
	"2 Jan 2006",
}

// DateNormalizer converts raw date cells (strings in several layouts,
// native times, or spreadsheet serial numbers) into canonical
// yyyy-MM-dd strings in one configured time zone.
type DateNormalizer struct {
	loc    *time.Location
	logger *slog.Logger
}

// NewDateNormalizer creates a normalizer bound to the given time zone
func NewDateNormalizer(logger *slog.Logger, loc *time.Location) *DateNormalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DateNormalizer{
		loc:    loc,
		logger: logger.With(slog.String("component", "date_normalizer")),
	}
}

// Normalize converts a raw date cell into the canonical yyyy-MM-dd form.
// The second return value is false when no interpretation yields a
// valid calendar date; failures are the caller's cue to skip the row,
// never to abort the batch.
func (n *DateNormalizer) Normalize(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return v.In(n.loc).Format(CanonicalDateFormat), true
	case float64:
		return n.fromNumber(v)
	case float32:
		return n.fromNumber(float64(v))
	case int:
		return n.fromNumber(float64(v))
	case int64:
		return n.fromNumber(float64(v))
	case string:
		return n.fromString(v)
	default:
		return "", false
	}
}

// fromNumber interprets a positive number as a spreadsheet day serial
// anchored at serialEpoch, or as a Unix millisecond timestamp when it
// is far too large to be a day count.
func (n *DateNormalizer) fromNumber(v float64) (string, bool) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}

	if v >= msTimestampThreshold {
		t := time.UnixMilli(int64(v)).In(n.loc)
		if !saneYear(t.Year()) {
			return "", false
		}
		return t.Format(CanonicalDateFormat), true
	}

	// Day serials are calendar counts with no zone of their own. The
	// day arithmetic runs in UTC so historical local-mean-time offsets
	// cannot shift the date; the resulting calendar day is then
	// anchored in the configured zone.
	days := int(math.Floor(v))
	d := serialEpoch.AddDate(0, 0, days)
	if !saneYear(d.Year()) {
		return "", false
	}
	anchored := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, n.loc)
	return anchored.Format(CanonicalDateFormat), true
}

// fromString walks the prioritized layout chain and short-circuits on
// the first layout that yields a valid calendar date.
func (n *DateNormalizer) fromString(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t.Format(CanonicalDateFormat), true
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t.In(n.loc).Format(CanonicalDateFormat), true
		}
	}

	return "", false
}

func saneYear(year int) bool {
	return year >= minSaneYear && year <= maxSaneYear
}
