package report

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "attendpulse/internal/errors"
	"attendpulse/pkg/contracts/domain"
)

// Config is the immutable configuration of one pipeline instance. It
// is supplied at construction time so the pipeline can be exercised
// with alternate zones, labels and location orders.
type Config struct {
	// Location is the single time zone used for all date
	// interpretation and formatting.
	Location *time.Location

	// DisplayDateFormat is the layout of pivot column keys.
	DisplayDateFormat string

	// Accepted day labels per weekday bucket.
	SundayLabels    []string
	WednesdayLabels []string

	// Canonical location orders per weekday bucket. A bucket with a
	// non-empty order enumerates every listed location even for an
	// empty month; a bucket with an empty order yields an empty result
	// instead.
	SundayOrder    []string
	WednesdayOrder []string

	// HighlightedLocations are flagged in every bucket's output.
	HighlightedLocations []string
}

// DefaultConfig returns the stock pipeline configuration
func DefaultConfig() Config {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.UTC
	}
	return Config{
		Location:          loc,
		DisplayDateFormat: "02-01-2006",
		SundayLabels:      []string{"sunday", "ஞாயிறு"},
		WednesdayLabels:   []string{"wednesday", "புதன்"},
	}
}

// Pipeline is the attendance report transformation: normalize dates,
// pick the month, classify rows, aggregate the weekday pivots and
// flatten the special-event list. One synchronous pass, no state
// shared across invocations beyond the read-only configuration.
type Pipeline struct {
	cfg        Config
	logger     *slog.Logger
	normalizer *DateNormalizer
	classifier *RowClassifier
	aggregator *PivotAggregator
	tracer     trace.Tracer
}

// NewPipeline creates a pipeline from the given configuration
func NewPipeline(logger *slog.Logger, cfg Config) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DisplayDateFormat == "" {
		cfg.DisplayDateFormat = "02-01-2006"
	}

	return &Pipeline{
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "report_pipeline")),
		normalizer: NewDateNormalizer(logger, cfg.Location),
		classifier: NewRowClassifier(cfg.SundayLabels, cfg.WednesdayLabels),
		aggregator: NewPivotAggregator(logger, cfg.DisplayDateFormat, cfg.HighlightedLocations),
		tracer:     otel.Tracer("attendpulse/report"),
	}
}

// Run executes the full transformation over the register table.
// requestedMonth is an optional yyyy-MM hint; resolution falls back to
// the current month, then the most recent month with data. All fatal
// conditions come back as typed application errors, never panics.
func (p *Pipeline) Run(ctx context.Context, table *domain.Table, requestedMonth string) (*domain.ReportData, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("report.requested_month", requestedMonth)))
	defer span.End()

	if table == nil || len(table.Values) == 0 {
		return nil, apperrors.NewSourceError("register table is missing", nil)
	}
	if len(table.Values) < 2 {
		return nil, apperrors.NewNoDataError("register has no data rows")
	}

	normalized := p.normalizeRows(ctx, table)
	if len(normalized) == 0 {
		return nil, apperrors.NewNoDataError("no register row has a parseable date")
	}

	months := AvailableMonths(normalized)
	current := time.Now().In(p.cfg.Location).Format(MonthFormat)
	selected, ok := SelectMonth(requestedMonth, current, months)
	if !ok {
		return nil, apperrors.NewNoDataError("no months with data available")
	}

	var sundayRows, wednesdayRows, specialRows []domain.NormalizedRow
	discarded := 0
	for _, row := range normalized {
		if !strings.HasPrefix(row.Date, selected) {
			continue
		}
		switch p.classifier.Classify(row.Row) {
		case BucketSunday:
			sundayRows = append(sundayRows, row)
		case BucketWednesday:
			wednesdayRows = append(wednesdayRows, row)
		case BucketSpecial:
			specialRows = append(specialRows, row)
		default:
			discarded++
		}
	}

	data := &domain.ReportData{
		SelectedMonth:   selected,
		AvailableMonths: months,
		Sunday:          p.aggregator.Aggregate(sundayRows, p.cfg.SundayOrder),
		Wednesday:       p.aggregator.Aggregate(wednesdayRows, p.cfg.WednesdayOrder),
		SpecialEvents:   BuildSpecialEvents(specialRows),
	}

	span.SetAttributes(
		attribute.String("report.selected_month", selected),
		attribute.Int("report.sunday_rows", len(sundayRows)),
		attribute.Int("report.wednesday_rows", len(wednesdayRows)),
		attribute.Int("report.special_rows", len(specialRows)),
	)

	p.logger.InfoContext(ctx, "report generated",
		slog.String("selected_month", selected),
		slog.Int("available_months", len(months)),
		slog.Int("sunday_rows", len(sundayRows)),
		slog.Int("wednesday_rows", len(wednesdayRows)),
		slog.Int("special_rows", len(specialRows)),
		slog.Int("discarded_rows", discarded))

	return data, nil
}

// normalizeRows runs the first pass: split each raw line into named
// fields and attach the canonical date. Rows whose date cell fails
// every normalization attempt are logged and dropped; they take no
// part in month discovery or any bucket.
func (p *Pipeline) normalizeRows(ctx context.Context, table *domain.Table) []domain.NormalizedRow {
	normalized := make([]domain.NormalizedRow, 0, len(table.Values)-1)

	// Row 0 is the header.
	for i := 1; i < len(table.Values); i++ {
		row := rowAt(table, i)

		date, ok := p.normalizer.Normalize(row.DateValue)
		if !ok {
			p.logger.WarnContext(ctx, "dropping row with unparseable date",
				slog.Int("row", i),
				slog.Any("date_value", row.DateValue),
				slog.String("date_text", row.DateText))
			continue
		}

		normalized = append(normalized, domain.NormalizedRow{Row: row, Date: date})
	}

	return normalized
}

// rowAt splits line i of both table renderings into named fields.
// Short lines are tolerated; absent cells read as empty.
func rowAt(table *domain.Table, i int) domain.Row {
	values := table.Values[i]
	var display []string
	if i < len(table.Display) {
		display = table.Display[i]
	}

	return domain.Row{
		Day:        displayCell(display, domain.ColDay),
		DateValue:  valueCell(values, domain.ColDate),
		DateText:   displayCell(display, domain.ColDate),
		Location:   displayCell(display, domain.ColLocation),
		Attendance: valueCell(values, domain.ColAttendance),
		Detail: domain.EventDetail{
			Mode:       displayCell(display, domain.ColMode),
			Name:       displayCell(display, domain.ColName),
			Arrival:    displayCell(display, domain.ColArrival),
			Topic:      displayCell(display, domain.ColTopic),
			Speaker:    displayCell(display, domain.ColSpeaker),
			Reading:    displayCell(display, domain.ColReading),
			Start:      displayCell(display, domain.ColStart),
			End:        displayCell(display, domain.ColEnd),
			Attendance: displayCell(display, domain.ColAttendance),
		},
	}
}

func displayCell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func valueCell(row []any, idx int) any {
	if idx < len(row) {
		return row[idx]
	}
	return nil
}
