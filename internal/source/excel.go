package source

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"attendpulse/internal/config"
	apperrors "attendpulse/internal/errors"
	"attendpulse/pkg/contracts/domain"
)

// ExcelSource reads the attendance register from a local workbook.
// Display cells come from the formatted rendering; underlying values
// come from the raw rendering, with numeric cells (day serials,
// attendance counts) surfaced as numbers the way the Sheets source
// does.
type ExcelSource struct {
	path      string
	sheetName string
	logger    *slog.Logger
}

// NewExcelSource creates an Excel-backed register source
func NewExcelSource(logger *slog.Logger, cfg config.SourceConfig) *ExcelSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelSource{
		path:      cfg.ExcelPath,
		sheetName: cfg.SheetName,
		logger:    logger.With(slog.String("component", "excel_source")),
	}
}

// Load reads both renderings of the register sheet
func (s *ExcelSource) Load(ctx context.Context) (*domain.Table, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, apperrors.NewSourceError("failed to open register workbook", err).
			WithContext("path", s.path)
	}
	defer f.Close()

	sheet := s.sheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	display, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewSourceError("failed to read register sheet", err).
			WithContext("sheet", sheet)
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewSourceError("failed to read raw register cells", err).
			WithContext("sheet", sheet)
	}

	table := &domain.Table{
		Values:  valueRows(raw),
		Display: display,
	}

	s.logger.InfoContext(ctx, "register loaded from workbook",
		slog.String("path", s.path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(table.Values)))

	return table, nil
}

// valueRows converts raw cell strings into typed values: cells that
// parse as numbers become float64 (matching the unformatted Sheets
// rendering), everything else stays a string.
func valueRows(raw [][]string) [][]any {
	rows := make([][]any, len(raw))
	for i, row := range raw {
		cells := make([]any, len(row))
		for j, cell := range row {
			if num, err := strconv.ParseFloat(cell, 64); err == nil && cell != "" {
				cells[j] = num
			} else {
				cells[j] = cell
			}
		}
		rows[i] = cells
	}
	return rows
}
