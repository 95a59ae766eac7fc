package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisError(t *testing.T) {
	t.Run("formats type and message", func(t *testing.T) {
		err := NewValidationError("weights must sum to 1", nil)
		assert.Equal(t, "[VALIDATION] weights must sum to 1", err.Error())
	})

	t.Run("formats cause", func(t *testing.T) {
		cause := stderrors.New("boom")
		err := NewComputeError("VIF failed", cause)
		assert.Equal(t, "[COMPUTE] VIF failed: boom", err.Error())
	})

	t.Run("unwraps cause chain", func(t *testing.T) {
		cause := stderrors.New("file missing")
		err := NewNotFoundError("observations CSV", cause)
		wrapped := fmt.Errorf("load table: %w", err)

		assert.True(t, stderrors.Is(wrapped, cause))

		var ae *AnalysisError
		require.True(t, stderrors.As(wrapped, &ae))
		assert.Equal(t, ErrTypeNotFound, ae.Type)
	})

	t.Run("context accumulates", func(t *testing.T) {
		err := NewParsingError("bad cell", nil).
			WithContext("file", "obs.csv").
			WithContext("row", 12)
		assert.Equal(t, "obs.csv", err.Context["file"])
		assert.Equal(t, 12, err.Context["row"])
	})
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"direct", NewExportError("write failed", nil), ErrTypeExport},
		{"wrapped", fmt.Errorf("outer: %w", NewConfigError("bad yaml", nil)), ErrTypeConfig},
		{"plain error", stderrors.New("plain"), ErrorType("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeOf(tt.err))
		})
	}
}

func TestMalformedRowError(t *testing.T) {
	cause := stderrors.New("strconv: invalid syntax")

	t.Run("with column", func(t *testing.T) {
		err := NewMalformedRowError("obs.csv", 42, "sst_mean", cause)
		assert.Contains(t, err.Error(), "obs.csv:42")
		assert.Contains(t, err.Error(), `"sst_mean"`)
		assert.True(t, stderrors.Is(err, cause))
	})

	t.Run("without column", func(t *testing.T) {
		err := NewMalformedRowError("obs.csv", 7, "", cause)
		assert.Equal(t, "malformed row obs.csv:7: strconv: invalid syntax", err.Error())
	})
}
