// Command reportgen reads an attendance register workbook and writes
// the computed report as CSV files and a JSON dump.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"attendpulse/internal/config"
	"attendpulse/internal/exporter"
	"attendpulse/internal/infrastructure"
	"attendpulse/internal/report"
	"attendpulse/internal/services"
	"attendpulse/internal/source"
)

func main() {
	inputPath := flag.String("input", "", "path to the register workbook (xlsx)")
	sheetName := flag.String("sheet", "", "sheet name (default: first sheet)")
	month := flag.String("month", "", "month to report, yyyy-MM (default: auto)")
	outDir := flag.String("out", "reports", "output directory")
	workbook := flag.Bool("workbook", false, "also write an xlsx workbook export")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: reportgen -input register.xlsx [-sheet name] [-month yyyy-MM] [-out dir]")
		os.Exit(2)
	}

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(logger, *inputPath, *sheetName, *month, *outDir, *workbook); err != nil {
		logger.Error("report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, inputPath, sheetName, month, outDir string, workbook bool) error {
	ctx := context.Background()

	registerSource := source.NewExcelSource(logger, config.SourceConfig{
		ExcelPath: inputPath,
		SheetName: sheetName,
	})

	cfg := config.Config{}
	if loaded, err := config.Load(); err == nil {
		cfg = *loaded
	} else {
		logger.Warn("using default report configuration", slog.String("reason", err.Error()))
		cfg.Report = defaultReportConfig()
	}

	pipelineCfg, err := services.PipelineConfig(cfg.Report)
	if err != nil {
		return err
	}
	pipeline := report.NewPipeline(logger, pipelineCfg)

	service := services.NewReportService(registerSource, pipeline, logger)
	data, err := service.Generate(ctx, month)
	if err != nil {
		return err
	}

	csvWriter := exporter.NewCSVWriter(logger)
	if err := csvWriter.WritePivot(filepath.Join(outDir, "sunday.csv"), data.Sunday); err != nil {
		return err
	}
	if err := csvWriter.WritePivot(filepath.Join(outDir, "wednesday.csv"), data.Wednesday); err != nil {
		return err
	}
	if err := csvWriter.WriteSpecialEvents(filepath.Join(outDir, "special_events.csv"), data.SpecialEvents); err != nil {
		return err
	}
	if err := exporter.WriteJSON(filepath.Join(outDir, "report.json"), data); err != nil {
		return err
	}

	if workbook {
		excelWriter := exporter.NewExcelWriter(logger)
		if err := excelWriter.WriteWorkbook(filepath.Join(outDir, "report.xlsx"), data); err != nil {
			return err
		}
	}

	logger.Info("report written",
		slog.String("selected_month", data.SelectedMonth),
		slog.String("out_dir", outDir))

	return nil
}

func defaultReportConfig() config.ReportConfig {
	return config.ReportConfig{
		TimeZone:          "Asia/Kolkata",
		DisplayDateFormat: "02-01-2006",
		SundayLabels:      []string{"sunday", "ஞாயிறு"},
		WednesdayLabels:   []string{"wednesday", "புதன்"},
	}
}
