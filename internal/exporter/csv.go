package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "attendpulse/internal/errors"
	"attendpulse/pkg/contracts/domain"
)

// CSVWriter exports computed report views as CSV files
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_exporter"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // UTF-8 BOM for Excel compatibility
}

// WritePivot writes one weekday pivot: a location per row, a date per
// column (cells hold the attendance figure), then the running average
// and the missing-data flag.
func (w *CSVWriter) WritePivot(path string, result domain.PivotResult) error {
	headers := append([]string{"Location"}, result.SortedDates...)
	headers = append(headers, "Average", "MissingData")

	records := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		record := make([]string, 0, len(headers))
		record = append(record, row.Location)
		for _, dateKey := range result.SortedDates {
			if detail, ok := row.DateData[dateKey]; ok && detail.Attendance != "" {
				record = append(record, detail.Attendance)
			} else if ok {
				record = append(record, "-")
			} else {
				record = append(record, "")
			}
		}
		record = append(record, row.Average, fmt.Sprintf("%t", row.IsMissingData))
		records = append(records, record)
	}

	return w.WriteCSV(path, WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
}

// WriteSpecialEvents writes the flat special-event list
func (w *CSVWriter) WriteSpecialEvents(path string, events []domain.SpecialEvent) error {
	headers := []string{"Date", "Day", "Location", "Mode", "Name", "Arrival", "Topic", "Speaker", "Reading", "Start", "End", "Attendance"}

	records := make([][]string, 0, len(events))
	for _, e := range events {
		records = append(records, []string{
			e.Date, e.Day, e.Location,
			e.Mode, e.Name, e.Arrival, e.Topic, e.Speaker, e.Reading, e.Start, e.End, e.Attendance,
		})
	}

	return w.WriteCSV(path, WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(path string, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for CSV output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create CSV file", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write CSV header row", err)
		}
	}

	for _, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError("failed to write CSV data row", err)
		}
	}

	return nil
}
