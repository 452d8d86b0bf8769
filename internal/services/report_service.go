package services

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"attendpulse/internal/config"
	apperrors "attendpulse/internal/errors"
	"attendpulse/internal/report"
	"attendpulse/pkg/contracts/domain"
)

// RegisterSource loads the two parallel register tables from wherever
// they live (Google Sheets, a workbook on disk)
type RegisterSource interface {
	Load(ctx context.Context) (*domain.Table, error)
}

// ReportService wires a register source to the report pipeline. Every
// call recomputes from the raw table; no computed result is persisted.
type ReportService struct {
	source   RegisterSource
	pipeline *report.Pipeline
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewReportService creates the report service
func NewReportService(source RegisterSource, pipeline *report.Pipeline, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		source:   source,
		pipeline: pipeline,
		logger:   logger.With(slog.String("component", "report_service")),
		tracer:   otel.Tracer("attendpulse/services"),
	}
}

// Generate loads the register and runs the full transformation for the
// requested month (optional yyyy-MM). Source failures and terminal
// pipeline states come back as typed application errors.
func (s *ReportService) Generate(ctx context.Context, requestedMonth string) (*domain.ReportData, error) {
	ctx, span := s.tracer.Start(ctx, "report.generate",
		trace.WithAttributes(attribute.String("report.requested_month", requestedMonth)))
	defer span.End()

	table, err := s.source.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load register",
			slog.String("error", err.Error()))
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.NewSourceError("failed to load register", err)
	}

	data, err := s.pipeline.Run(ctx, table, requestedMonth)
	if err != nil {
		s.logger.ErrorContext(ctx, "report pipeline failed",
			slog.String("requested_month", requestedMonth),
			slog.String("error", err.Error()))
		return nil, err
	}

	return data, nil
}

// AvailableMonths returns every month with data plus the month the
// pipeline would select with no explicit request.
func (s *ReportService) AvailableMonths(ctx context.Context) ([]string, string, error) {
	data, err := s.Generate(ctx, "")
	if err != nil {
		return nil, "", err
	}
	return data.AvailableMonths, data.SelectedMonth, nil
}

// PipelineConfig maps the application report configuration onto the
// pipeline's immutable construction config.
func PipelineConfig(cfg config.ReportConfig) (report.Config, error) {
	loc, err := cfg.Location()
	if err != nil {
		return report.Config{}, apperrors.NewConfigError("invalid report time zone", err)
	}

	return report.Config{
		Location:             loc,
		DisplayDateFormat:    cfg.DisplayDateFormat,
		SundayLabels:         cfg.SundayLabels,
		WednesdayLabels:      cfg.WednesdayLabels,
		SundayOrder:          cfg.SundayLocations,
		WednesdayOrder:       cfg.WednesdayLocations,
		HighlightedLocations: cfg.HighlightedLocations,
	}, nil
}
