package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "attendpulse/internal/errors"
	"attendpulse/pkg/contracts/domain"
)

// ReportServiceInterface is the service surface the handler needs
type ReportServiceInterface interface {
	Generate(ctx context.Context, requestedMonth string) (*domain.ReportData, error)
	AvailableMonths(ctx context.Context) ([]string, string, error)
}

// ReportHandler serves the attendance report API
type ReportHandler struct {
	service  ReportServiceInterface
	logger   *slog.Logger
	validate *validator.Validate
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service:  service,
		logger:   logger.With(slog.String("component", "report_handler")),
		validate: validator.New(),
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetReport)
	r.Get("/months", h.GetMonths)

	return r
}

// reportQuery carries the validated query parameters of GET /
type reportQuery struct {
	Month string `validate:"omitempty,datetime=2006-01"`
}

// GetReport handles GET /api/report?month=yyyy-MM
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	query := reportQuery{Month: r.URL.Query().Get("month")}
	if err := h.validate.Struct(query); err != nil {
		apierrors.RenderError(w, r, apierrors.ErrValidation("month", "month must be in yyyy-MM format"))
		return
	}

	h.logger.InfoContext(r.Context(), "generating report",
		slog.String("requested_month", query.Month))

	data, err := h.service.Generate(r.Context(), query.Month)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to generate report",
			slog.String("requested_month", query.Month),
			slog.String("error", err.Error()))
		apierrors.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, data)
}

// monthsResponse is the payload of GET /months
type monthsResponse struct {
	AvailableMonths []string `json:"available_months"`
	SelectedMonth   string   `json:"selected_month"`
}

// GetMonths handles GET /api/report/months
func (h *ReportHandler) GetMonths(w http.ResponseWriter, r *http.Request) {
	months, selected, err := h.service.AvailableMonths(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list months",
			slog.String("error", err.Error()))
		apierrors.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, monthsResponse{AvailableMonths: months, SelectedMonth: selected})
}
