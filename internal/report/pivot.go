package report

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"attendpulse/pkg/contracts/domain"
)

// locationAggregate accumulates one location's pivot cells and
// attendance metric within a single weekday bucket.
type locationAggregate struct {
	dateData    map[string]domain.EventDetail
	metricSum   float64
	metricCount int
}

// upsertIfAbsent stores the detail for the date key only when the key
// is not present yet. This is the named first-write-wins policy: the
// first row seen for a (location, date) pair supplies both the pivot
// cell and the metric contribution, later duplicates are ignored.
func (a *locationAggregate) upsertIfAbsent(dateKey string, detail domain.EventDetail, metric float64, hasMetric bool) {
	if _, exists := a.dateData[dateKey]; exists {
		return
	}
	a.dateData[dateKey] = detail
	if hasMetric {
		a.metricSum += metric
		a.metricCount++
	}
}

// PivotAggregator builds the per-weekday pivot view: one row per
// location, one column per date, cells holding event details, plus a
// one-decimal running average of the attendance metric.
type PivotAggregator struct {
	displayFormat string
	highlights    map[string]struct{}
	logger        *slog.Logger
}

// NewPivotAggregator creates an aggregator emitting display date keys
// in the given layout and flagging the given locations as highlighted
func NewPivotAggregator(logger *slog.Logger, displayFormat string, highlighted []string) *PivotAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if displayFormat == "" {
		displayFormat = "02-01-2006"
	}

	highlights := make(map[string]struct{}, len(highlighted))
	for _, h := range highlighted {
		highlights[strings.TrimSpace(h)] = struct{}{}
	}

	return &PivotAggregator{
		displayFormat: displayFormat,
		highlights:    highlights,
		logger:        logger.With(slog.String("component", "pivot_aggregator")),
	}
}

// Aggregate folds the bucket rows into a PivotResult. Locations from
// canonicalOrder are always emitted, in order, whether or not they have
// data; locations found only in the data are appended alphabetically.
// An empty canonicalOrder combined with empty rows yields an empty
// result (the configured enumeration policy for buckets without a
// canonical list).
func (p *PivotAggregator) Aggregate(rows []domain.NormalizedRow, canonicalOrder []string) domain.PivotResult {
	aggregates := make(map[string]*locationAggregate)
	// Underlying ISO date per display key, first occurrence wins; this
	// is what allows chronological ordering of human-formatted keys.
	keyISO := make(map[string]string)

	for _, row := range rows {
		dateKey, ok := p.displayKey(row.Date)
		if !ok {
			p.logger.Warn("skipping row with unformattable canonical date",
				slog.String("date", row.Date))
			continue
		}
		if _, seen := keyISO[dateKey]; !seen {
			keyISO[dateKey] = row.Date
		}

		location := strings.TrimSpace(row.Row.Location)
		agg, exists := aggregates[location]
		if !exists {
			agg = &locationAggregate{dateData: make(map[string]domain.EventDetail)}
			aggregates[location] = agg
		}

		metric, hasMetric := parseMetric(row.Row.Attendance)
		agg.upsertIfAbsent(dateKey, row.Row.Detail, metric, hasMetric)
	}

	sortedDates := make([]string, 0, len(keyISO))
	for key := range keyISO {
		sortedDates = append(sortedDates, key)
	}
	// Chronological by underlying ISO date, never lexical on the
	// display key.
	sort.Slice(sortedDates, func(i, j int) bool {
		return keyISO[sortedDates[i]] < keyISO[sortedDates[j]]
	})

	result := domain.PivotResult{
		Rows:        make([]domain.PivotRow, 0, len(canonicalOrder)+len(aggregates)),
		SortedDates: sortedDates,
	}

	emitted := make(map[string]struct{}, len(canonicalOrder))
	for _, location := range canonicalOrder {
		result.Rows = append(result.Rows, p.buildRow(location, aggregates[location], sortedDates))
		emitted[location] = struct{}{}
	}

	extras := make([]string, 0)
	for location := range aggregates {
		if _, ok := emitted[location]; !ok {
			extras = append(extras, location)
		}
	}
	sort.Strings(extras)
	for _, location := range extras {
		result.Rows = append(result.Rows, p.buildRow(location, aggregates[location], sortedDates))
	}

	return result
}

// buildRow emits one pivot output row for a location, present or not
func (p *PivotAggregator) buildRow(location string, agg *locationAggregate, sortedDates []string) domain.PivotRow {
	row := domain.PivotRow{
		Location: location,
		DateData: make(map[string]domain.EventDetail),
		Average:  domain.AverageNotApplicable,
	}

	if _, ok := p.highlights[location]; ok {
		row.IsHighlighted = true
	}

	if agg != nil {
		row.DateData = agg.dateData
		if agg.metricCount > 0 {
			avg := agg.metricSum / float64(agg.metricCount)
			row.Average = fmt.Sprintf("%.1f", math.Round(avg*10)/10)
		}
	}

	// A location is missing data when the bucket has at least one date
	// column and this location lacks an entry for at least one of them.
	for _, dateKey := range sortedDates {
		if _, ok := row.DateData[dateKey]; !ok {
			row.IsMissingData = true
			break
		}
	}

	return row
}

// displayKey reformats a canonical yyyy-MM-dd date into the
// human-facing column key
func (p *PivotAggregator) displayKey(canonicalDate string) (string, bool) {
	t, err := time.Parse(CanonicalDateFormat, canonicalDate)
	if err != nil {
		return "", false
	}
	return t.Format(p.displayFormat), true
}

// parseMetric reads the attendance metric from an underlying cell
// value. Thousands separators are stripped from strings; non-numeric
// or missing values are excluded from both the sum and the count.
func parseMetric(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if cleaned == "" {
			return 0, false
		}
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return value, true
	default:
		return 0, false
	}
}
