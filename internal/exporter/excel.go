package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "attendpulse/internal/errors"
	"attendpulse/pkg/contracts/domain"
)

// ExcelWriter exports a full report as one workbook: a sheet per
// weekday pivot and one for the special-event list.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new workbook writer
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger.With(slog.String("component", "excel_exporter"))}
}

// WriteWorkbook writes the report to an xlsx file
func (w *ExcelWriter) WriteWorkbook(path string, data *domain.ReportData) error {
	if data == nil {
		return apperrors.NewStorageError("no report data to export", nil)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for workbook output", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writePivotSheet(f, "Sunday", data.Sunday, true); err != nil {
		return err
	}
	if err := writePivotSheet(f, "Wednesday", data.Wednesday, false); err != nil {
		return err
	}
	if err := writeSpecialSheet(f, "Special Events", data.SpecialEvents); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save report workbook", err)
	}

	w.logger.Info("report workbook written",
		slog.String("path", path),
		slog.String("selected_month", data.SelectedMonth))

	return nil
}

// writePivotSheet lays one pivot out as a matrix. The first sheet
// reuses the workbook's default sheet so the file never carries an
// empty "Sheet1".
func writePivotSheet(f *excelize.File, name string, result domain.PivotResult, first bool) error {
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return apperrors.NewStorageError("failed to rename pivot sheet", err)
		}
	} else {
		if _, err := f.NewSheet(name); err != nil {
			return apperrors.NewStorageError("failed to create pivot sheet", err)
		}
	}

	headers := append([]string{"Location"}, result.SortedDates...)
	headers = append(headers, "Average")
	if err := writeRow(f, name, 1, headers); err != nil {
		return err
	}

	for i, row := range result.Rows {
		cells := make([]string, 0, len(headers))
		cells = append(cells, row.Location)
		for _, dateKey := range result.SortedDates {
			if detail, ok := row.DateData[dateKey]; ok {
				cells = append(cells, detail.Attendance)
			} else {
				cells = append(cells, "")
			}
		}
		cells = append(cells, row.Average)
		if err := writeRow(f, name, i+2, cells); err != nil {
			return err
		}
	}

	return nil
}

func writeSpecialSheet(f *excelize.File, name string, events []domain.SpecialEvent) error {
	if _, err := f.NewSheet(name); err != nil {
		return apperrors.NewStorageError("failed to create special events sheet", err)
	}

	headers := []string{"Date", "Day", "Location", "Mode", "Name", "Arrival", "Topic", "Speaker", "Reading", "Start", "End", "Attendance"}
	if err := writeRow(f, name, 1, headers); err != nil {
		return err
	}

	for i, e := range events {
		cells := []string{e.Date, e.Day, e.Location, e.Mode, e.Name, e.Arrival, e.Topic, e.Speaker, e.Reading, e.Start, e.End, e.Attendance}
		if err := writeRow(f, name, i+2, cells); err != nil {
			return err
		}
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	for col, value := range cells {
		cellName, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("invalid cell coordinates (%d,%d)", col+1, rowNum), err)
		}
		if err := f.SetCellValue(sheet, cellName, value); err != nil {
			return apperrors.NewStorageError("failed to set cell value", err)
		}
	}
	return nil
}
