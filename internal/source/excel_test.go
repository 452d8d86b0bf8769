package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"attendpulse/internal/config"
)

func writeFixtureWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Day", "Date", "Location", "Attendance"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	row := []interface{}{"Sunday", "2024-03-03", "Main Hall", 120}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row))

	path := filepath.Join(t.TempDir(), "register.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExcelSource_Load(t *testing.T) {
	path := writeFixtureWorkbook(t)

	src := NewExcelSource(nil, config.SourceConfig{ExcelPath: path})
	table, err := src.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, table.Values, 2)
	require.Len(t, table.Display, 2)

	// Numeric cells surface as float64 in the underlying rendering.
	assert.Equal(t, float64(120), table.Values[1][3])
	// Text cells stay strings.
	assert.Equal(t, "Sunday", table.Values[1][0])
	assert.Equal(t, "2024-03-03", table.Values[1][1])

	assert.Equal(t, "Main Hall", table.Display[1][2])
}

func TestExcelSource_LoadMissingFile(t *testing.T) {
	src := NewExcelSource(nil, config.SourceConfig{ExcelPath: filepath.Join(t.TempDir(), "absent.xlsx")})
	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestExcelSource_NamedSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Register")
	require.NoError(t, err)
	row := []interface{}{"Sunday", "2024-03-03", "Main Hall", 120}
	require.NoError(t, f.SetSheetRow("Register", "A1", &row))

	path := filepath.Join(t.TempDir(), "register.xlsx")
	require.NoError(t, f.SaveAs(path))

	src := NewExcelSource(nil, config.SourceConfig{ExcelPath: path, SheetName: "Register"})
	table, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Values, 1)
	assert.Equal(t, "Sunday", table.Values[0][0])
}

func TestDisplayString(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string", "Main Hall", "Main Hall"},
		{"float drops trailing zeros", 120.0, "120"},
		{"fractional float", 120.5, "120.5"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayString(tt.in))
		})
	}
}
