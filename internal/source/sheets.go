package source

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"attendpulse/internal/config"
	apperrors "attendpulse/internal/errors"
	"attendpulse/pkg/contracts/domain"
)

// SheetsSource reads the attendance register from a Google Sheets
// spreadsheet. The same range is fetched twice, once with unformatted
// values (typed dates as day serials, numbers as numbers) and once
// with display formatting, to build the two parallel tables the
// pipeline requires.
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
	logger        *slog.Logger
}

// NewSheetsSource creates a Sheets-backed register source
func NewSheetsSource(ctx context.Context, logger *slog.Logger, cfg config.SourceConfig) (*SheetsSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewSourceError("failed to create sheets service", err)
	}

	return &SheetsSource{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.ReadRange,
		logger:        logger.With(slog.String("component", "sheets_source")),
	}, nil
}

// Load fetches both value renderings of the register range
func (s *SheetsSource) Load(ctx context.Context) (*domain.Table, error) {
	var rawRange, displayRange *sheets.ValueRange

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vr, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
			ValueRenderOption("UNFORMATTED_VALUE").
			DateTimeRenderOption("SERIAL_NUMBER").
			Context(gctx).Do()
		if err != nil {
			return fmt.Errorf("fetch unformatted values: %w", err)
		}
		rawRange = vr
		return nil
	})
	g.Go(func() error {
		vr, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
			ValueRenderOption("FORMATTED_VALUE").
			Context(gctx).Do()
		if err != nil {
			return fmt.Errorf("fetch formatted values: %w", err)
		}
		displayRange = vr
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewSourceError("failed to read register spreadsheet", err).
			WithContext("spreadsheet_id", s.spreadsheetID).
			WithContext("range", s.readRange)
	}

	table := &domain.Table{
		Values:  rawRange.Values,
		Display: displayRows(displayRange.Values),
	}

	s.logger.InfoContext(ctx, "register loaded from sheets",
		slog.String("spreadsheet_id", s.spreadsheetID),
		slog.String("range", s.readRange),
		slog.Int("rows", len(table.Values)))

	return table, nil
}

// displayRows renders the formatted value grid as plain strings
func displayRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = displayString(cell)
		}
		rows[i] = cells
	}
	return rows
}

func displayString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
