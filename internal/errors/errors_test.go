package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	cause := errors.New("underlying failure")
	err := NewSourceError("spreadsheet unreachable", cause)

	assert.Contains(t, err.Error(), "SOURCE")
	assert.Contains(t, err.Error(), "spreadsheet unreachable")
	assert.ErrorIs(t, err, cause)

	err = err.WithContext("spreadsheet_id", "abc123")
	assert.Equal(t, "abc123", err.Context["spreadsheet_id"])
}

func TestIsType(t *testing.T) {
	err := NewNoDataError("no rows")
	assert.True(t, IsType(err, ErrTypeNoData))
	assert.False(t, IsType(err, ErrTypeSource))

	wrapped := fmt.Errorf("generate report: %w", err)
	assert.True(t, IsType(wrapped, ErrTypeNoData))

	assert.False(t, IsType(errors.New("plain"), ErrTypeNoData))
}

func TestFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no data maps to 404", NewNoDataError("no rows"), http.StatusNotFound, "NO_REPORT_DATA"},
		{"source maps to 502", NewSourceError("down", nil), http.StatusBadGateway, "SOURCE_UNAVAILABLE"},
		{"validation maps to 400", NewValidationError("bad month", nil), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"config maps to 500", NewConfigError("bad zone", nil), http.StatusInternalServerError, "CONFIG_ERROR"},
		{"storage maps to 500", NewStorageError("disk full", nil), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"plain error maps to 500", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromAppError(tt.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}
