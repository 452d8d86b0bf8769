package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "attendpulse/internal/errors"
	"attendpulse/pkg/contracts/domain"
)

func testConfig() Config {
	return Config{
		Location:          time.UTC,
		DisplayDateFormat: "02-01-2006",
		SundayLabels:      []string{"sunday", "ஞாயிறு"},
		WednesdayLabels:   []string{"wednesday", "புதன்"},
		SundayOrder:       []string{"Main Hall", "Annex"},
		WednesdayOrder:    []string{"Main Hall"},
	}
}

func registerLine(day, date, location, attendance string, extras ...string) ([]any, []string) {
	display := make([]string, domain.ColumnCount)
	display[domain.ColDay] = day
	display[domain.ColDate] = date
	display[domain.ColLocation] = location
	display[domain.ColAttendance] = attendance
	for i, extra := range extras {
		if domain.ColMode+i < domain.ColumnCount {
			display[domain.ColMode+i] = extra
		}
	}

	values := make([]any, domain.ColumnCount)
	for i, cell := range display {
		values[i] = cell
	}
	return values, display
}

func buildTable(lines ...func() ([]any, []string)) *domain.Table {
	header := []string{"Day", "Date", "Location", "Attendance", "Mode", "Name", "Arrival", "Topic", "Speaker", "Reading", "Start", "End"}
	table := &domain.Table{
		Values:  [][]any{anyRow(header)},
		Display: [][]string{header},
	}
	for _, line := range lines {
		values, display := line()
		table.Values = append(table.Values, values)
		table.Display = append(table.Display, display)
	}
	return table
}

func anyRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func line(day, date, location, attendance string, extras ...string) func() ([]any, []string) {
	return func() ([]any, []string) { return registerLine(day, date, location, attendance, extras...) }
}

func TestPipeline_Run_FullMonth(t *testing.T) {
	p := NewPipeline(nil, testConfig())

	table := buildTable(
		line("Sunday", "2024-03-03", "Main Hall", "120"),
		line("Sunday", "2024-03-10", "Main Hall", "140"),
		line("Sunday", "2024-03-03", "Annex", "60"),
		line("Wednesday", "2024-03-06", "Main Hall", "45"),
		line("Good Friday", "2024-03-29", "Main Hall", "300"),
		// Dropped: unparseable date.
		line("Sunday", "not a date", "Main Hall", "999"),
		// Discarded: blank location.
		line("Sunday", "2024-03-17", "", "80"),
		// Outside the selected month.
		line("Sunday", "2024-01-07", "Main Hall", "100"),
	)

	data, err := p.Run(context.Background(), table, "2024-03")
	require.NoError(t, err)

	assert.Equal(t, "2024-03", data.SelectedMonth)
	assert.Equal(t, []string{"2024-01", "2024-03"}, data.AvailableMonths)

	require.Equal(t, []string{"03-03-2024", "10-03-2024"}, data.Sunday.SortedDates)
	require.Len(t, data.Sunday.Rows, 2)
	mainHall := data.Sunday.Rows[0]
	assert.Equal(t, "Main Hall", mainHall.Location)
	assert.Equal(t, "130.0", mainHall.Average)
	assert.False(t, mainHall.IsMissingData)
	annex := data.Sunday.Rows[1]
	assert.Equal(t, "60.0", annex.Average)
	assert.True(t, annex.IsMissingData, "Annex lacks the 10th")

	require.Len(t, data.Wednesday.Rows, 1)
	assert.Equal(t, "45.0", data.Wednesday.Rows[0].Average)

	require.Len(t, data.SpecialEvents, 1)
	assert.Equal(t, "Good Friday", data.SpecialEvents[0].Day)
}

func TestPipeline_Run_MonthFallback(t *testing.T) {
	p := NewPipeline(nil, testConfig())

	table := buildTable(
		line("Sunday", "2024-01-07", "Main Hall", "100"),
		line("Sunday", "2024-03-03", "Main Hall", "120"),
	)

	// Requested month has no data and the current calendar month is not
	// in the register either; the most recent month wins.
	data, err := p.Run(context.Background(), table, "2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", data.SelectedMonth)
}

func TestPipeline_Run_TerminalStates(t *testing.T) {
	p := NewPipeline(nil, testConfig())
	ctx := context.Background()

	_, err := p.Run(ctx, nil, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSource))

	_, err = p.Run(ctx, buildTable(), "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData), "header-only table")

	_, err = p.Run(ctx, buildTable(
		line("Sunday", "not a date", "Main Hall", "100"),
		line("Sunday", "31/02/2024", "Annex", "50"),
	), "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoData), "no parseable dates")
}

func TestPipeline_Run_Deterministic(t *testing.T) {
	p := NewPipeline(nil, testConfig())

	table := buildTable(
		line("Sunday", "2024-03-03", "Main Hall", "120"),
		line("Wednesday", "2024-03-06", "Main Hall", "45"),
		line("Festival", "2024-03-20", "Annex", "200"),
	)

	first, err := p.Run(context.Background(), table, "2024-03")
	require.NoError(t, err)
	second, err := p.Run(context.Background(), table, "2024-03")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPipeline_Run_SerialDates(t *testing.T) {
	p := NewPipeline(nil, testConfig())

	values, display := registerLine("Sunday", "03-03-2024", "Main Hall", "120")
	values[domain.ColDate] = 45354.0 // spreadsheet serial for 2024-03-03
	values[domain.ColAttendance] = 120.0

	header := []string{"Day", "Date", "Location", "Attendance"}
	table := &domain.Table{
		Values:  [][]any{anyRow(header), values},
		Display: [][]string{header, display},
	}

	data, err := p.Run(context.Background(), table, "2024-03")
	require.NoError(t, err)
	require.Equal(t, []string{"03-03-2024"}, data.Sunday.SortedDates)
	assert.Equal(t, "120.0", data.Sunday.Rows[0].Average)
}

func TestPipeline_Run_ShortRowsTolerated(t *testing.T) {
	p := NewPipeline(nil, testConfig())

	table := &domain.Table{
		Values: [][]any{
			anyRow([]string{"Day", "Date", "Location"}),
			{"Sunday", "2024-03-03", "Main Hall"},
		},
		Display: [][]string{
			{"Day", "Date", "Location"},
			{"Sunday", "2024-03-03", "Main Hall"},
		},
	}

	data, err := p.Run(context.Background(), table, "2024-03")
	require.NoError(t, err)
	require.Len(t, data.Sunday.Rows, 2)
	// No attendance column at all: cell present, average not applicable.
	assert.Equal(t, domain.AverageNotApplicable, data.Sunday.Rows[0].Average)
	assert.Len(t, data.Sunday.Rows[0].DateData, 1)
}
