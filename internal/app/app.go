package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attendpulse/internal/config"
	"attendpulse/internal/infrastructure"
	custommiddleware "attendpulse/internal/middleware"
	"attendpulse/internal/report"
	"attendpulse/internal/services"
	"attendpulse/internal/source"
	handlers "attendpulse/internal/transport/http"
)

// Version is set at build time
var Version = "dev"

// Application is the dependency container for the web binary
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	ReportService *services.ReportService
}

// NewApplication loads configuration and wires all services
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.String("source_type", cfg.Source.Type),
		slog.String("time_zone", cfg.Report.TimeZone))

	registerSource, err := buildSource(ctx, logger, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to build register source: %w", err)
	}

	pipelineCfg, err := services.PipelineConfig(cfg.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline config: %w", err)
	}
	pipeline := report.NewPipeline(logger, pipelineCfg)

	reportService := services.NewReportService(registerSource, pipeline, logger)

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		ReportService: reportService,
	}
	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// buildSource selects the configured register source
func buildSource(ctx context.Context, logger *slog.Logger, cfg config.SourceConfig) (services.RegisterSource, error) {
	switch strings.ToLower(cfg.Type) {
	case "sheets":
		return source.NewSheetsSource(ctx, logger, cfg)
	case "excel":
		return source.NewExcelSource(logger, cfg), nil
	default:
		return nil, fmt.Errorf("unknown source type: %q", cfg.Type)
	}
}

func (a *Application) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(a.Logger))
	r.Use(custommiddleware.Recoverer(a.Logger))
	r.Use(custommiddleware.Metrics)
	r.Use(custommiddleware.RateLimit(a.Config.Server.RateLimit))

	reportHandler := handlers.NewReportHandler(a.ReportService, a.Logger)
	healthHandler := handlers.NewHealthHandler(Version)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/report", reportHandler.Routes())
	})
	r.Get("/healthz", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run starts the HTTP server and blocks until shutdown
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		a.Logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := infrastructure.CloseLogger(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}

	return nil
}
