package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendpulse/internal/config"
	apperrors "attendpulse/internal/errors"
	"attendpulse/internal/report"
	"attendpulse/pkg/contracts/domain"
)

// stubSource serves a fixed table or a fixed error
type stubSource struct {
	table *domain.Table
	err   error
}

func (s *stubSource) Load(ctx context.Context) (*domain.Table, error) {
	return s.table, s.err
}

func fixtureTable() *domain.Table {
	header := []string{"Day", "Date", "Location", "Attendance"}
	return &domain.Table{
		Values: [][]any{
			{header[0], header[1], header[2], header[3]},
			{"Sunday", "2024-03-03", "Main Hall", 120.0},
			{"Wednesday", "2024-03-06", "Main Hall", 45.0},
			{"Festival", "2024-03-20", "Annex", 200.0},
		},
		Display: [][]string{
			header,
			{"Sunday", "03-03-2024", "Main Hall", "120"},
			{"Wednesday", "06-03-2024", "Main Hall", "45"},
			{"Festival", "20-03-2024", "Annex", "200"},
		},
	}
}

func testPipeline(t *testing.T) *report.Pipeline {
	t.Helper()
	return report.NewPipeline(nil, report.Config{
		Location:          time.UTC,
		DisplayDateFormat: "02-01-2006",
		SundayLabels:      []string{"sunday"},
		WednesdayLabels:   []string{"wednesday"},
		SundayOrder:       []string{"Main Hall"},
		WednesdayOrder:    []string{"Main Hall"},
	})
}

func TestReportService_Generate(t *testing.T) {
	svc := NewReportService(&stubSource{table: fixtureTable()}, testPipeline(t), nil)

	data, err := svc.Generate(context.Background(), "2024-03")
	require.NoError(t, err)

	assert.Equal(t, "2024-03", data.SelectedMonth)
	require.Len(t, data.Sunday.Rows, 1)
	assert.Equal(t, "120.0", data.Sunday.Rows[0].Average)
	require.Len(t, data.SpecialEvents, 1)
	assert.Equal(t, "Festival", data.SpecialEvents[0].Day)
}

func TestReportService_Generate_SourceErrors(t *testing.T) {
	t.Run("typed source error passes through", func(t *testing.T) {
		wantErr := apperrors.NewSourceError("spreadsheet unreachable", nil)
		svc := NewReportService(&stubSource{err: wantErr}, testPipeline(t), nil)

		_, err := svc.Generate(context.Background(), "")
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("untyped error wrapped as source error", func(t *testing.T) {
		svc := NewReportService(&stubSource{err: errors.New("boom")}, testPipeline(t), nil)

		_, err := svc.Generate(context.Background(), "")
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSource))
	})
}

func TestReportService_AvailableMonths(t *testing.T) {
	svc := NewReportService(&stubSource{table: fixtureTable()}, testPipeline(t), nil)

	months, selected, err := svc.AvailableMonths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03"}, months)
	assert.Equal(t, "2024-03", selected)
}

func TestPipelineConfig(t *testing.T) {
	cfg := config.ReportConfig{
		TimeZone:             "Asia/Kolkata",
		DisplayDateFormat:    "02-01-2006",
		SundayLabels:         []string{"sunday"},
		WednesdayLabels:      []string{"wednesday"},
		SundayLocations:      []string{"Main Hall"},
		HighlightedLocations: []string{"Main Hall"},
	}

	pipelineCfg, err := PipelineConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", pipelineCfg.Location.String())
	assert.Equal(t, []string{"Main Hall"}, pipelineCfg.SundayOrder)

	_, err = PipelineConfig(config.ReportConfig{TimeZone: "Not/AZone"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}
