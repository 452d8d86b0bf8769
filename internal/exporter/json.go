package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	apperrors "attendpulse/internal/errors"
	"attendpulse/pkg/contracts/domain"
)

// WriteJSON dumps the full report with generation metadata
func WriteJSON(path string, data *domain.ReportData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for JSON output", err)
	}

	payload := map[string]interface{}{
		"report":       data,
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "attendance_report_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create JSON report file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return apperrors.NewStorageError("failed to encode report to JSON", err)
	}

	return nil
}
