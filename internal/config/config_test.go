package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Source: SourceConfig{Type: "excel", ExcelPath: "data/register.xlsx"},
		Report: ReportConfig{
			TimeZone:          "Asia/Kolkata",
			DisplayDateFormat: "02-01-2006",
			SundayLabels:      []string{"sunday", "ஞாயிறு"},
			WednesdayLabels:   []string{"wednesday", "புதன்"},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid excel config", func(c *Config) {}, ""},
		{
			"valid sheets config",
			func(c *Config) {
				c.Source = SourceConfig{Type: "sheets", SpreadsheetID: "abc123", ReadRange: "Register!A:L"}
			},
			"",
		},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"unknown source", func(c *Config) { c.Source.Type = "carrier-pigeon" }, "unknown source type"},
		{
			"sheets without spreadsheet id",
			func(c *Config) { c.Source = SourceConfig{Type: "sheets", ReadRange: "A:L"} },
			"spreadsheet_id",
		},
		{"excel without path", func(c *Config) { c.Source.ExcelPath = "" }, "excel_path"},
		{"bad time zone", func(c *Config) { c.Report.TimeZone = "Not/AZone" }, "invalid time zone"},
		{"empty display format", func(c *Config) { c.Report.DisplayDateFormat = "" }, "display_date_format"},
		{"no sunday labels", func(c *Config) { c.Report.SundayLabels = nil }, "sunday_labels"},
		{"no wednesday labels", func(c *Config) { c.Report.WednesdayLabels = nil }, "wednesday_labels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestReportConfig_Location(t *testing.T) {
	loc, err := ReportConfig{TimeZone: "Asia/Kolkata"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	_, err = ReportConfig{TimeZone: "Nowhere"}.Location()
	assert.Error(t, err)
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := validConfig()
	fileCfg.Source.SpreadsheetID = "from-file"
	fileCfg.Report.SundayLocations = []string{"Main Hall", "Annex"}

	envCfg := validConfig()
	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, "from-file", merged.Source.SpreadsheetID)
	assert.Equal(t, []string{"Main Hall", "Annex"}, merged.Report.SundayLocations)

	// Env values survive the merge.
	envCfg.Source.SpreadsheetID = "from-env"
	merged = mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, "from-env", merged.Source.SpreadsheetID)
}
