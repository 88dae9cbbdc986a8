package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{"data consistency error type", ErrTypeDataConsistency, "DATA_CONSISTENCY"},
		{"parsing error type", ErrTypeParsing, "PARSING"},
		{"storage error type", ErrTypeStorage, "STORAGE"},
		{"validation error type", ErrTypeValidation, "VALIDATION"},
		{"not found error type", ErrTypeNotFound, "NOT_FOUND"},
		{"config error type", ErrTypeConfig, "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeNotFound,
				Message: "baseline month 2020-12 not found",
			},
			wantMessage: "[NOT_FOUND] baseline month 2020-12 not found",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "failed to read upload-itemindices202101.csv",
				Cause:   fmt.Errorf("wrong number of fields"),
			},
			wantMessage: "[PARSING] failed to read upload-itemindices202101.csv: wrong number of fields",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	appErr := NewStorageError("failed to write report", cause)
	assert.Same(t, cause, appErr.Unwrap())

	assert.Nil(t, NewAppValidationError("bad").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	t.Run("chain multiple context values", func(t *testing.T) {
		appErr := NewParsingError("bad index value", nil)

		result := appErr.
			WithContext("file", "upload-itemindices202101.csv").
			WithContext("row", 42)

		assert.Same(t, appErr, result)
		assert.Equal(t, "upload-itemindices202101.csv", result.Context["file"])
		assert.Equal(t, 42, result.Context["row"])
	})

	t.Run("nil context is initialised", func(t *testing.T) {
		appErr := &AppError{Type: ErrTypeConfig, Message: "config error"}
		appErr.WithContext("key", "value")
		require.NotNil(t, appErr.Context)
		assert.Equal(t, "value", appErr.Context["key"])
	})

	t.Run("overwrite existing context value", func(t *testing.T) {
		appErr := NewAppValidationError("x").WithContext("series", "A").WithContext("series", "B")
		assert.Equal(t, "B", appErr.Context["series"])
	})
}

func TestAppError_LogAttrs(t *testing.T) {
	appErr := NewNotFoundError("series").
		WithContext("series", "TOOTHBRUSH").
		WithContext("month", "2020-12")

	attrs := appErr.LogAttrs()
	require.Len(t, attrs, 3)
	assert.Equal(t, slog.String("error_type", "NOT_FOUND"), attrs[0])
	assert.Equal(t, "month", attrs[1].Key)
	assert.Equal(t, "series", attrs[2].Key)
}

func TestNewDataConsistencyError(t *testing.T) {
	appErr := NewDataConsistencyError(11, 12, []string{"2021 JAN"})

	assert.Equal(t, ErrTypeDataConsistency, appErr.Type)
	assert.Equal(t, "[DATA_CONSISTENCY] resolved 11 reference values for 12 months", appErr.Error())
	assert.Equal(t, 11, appErr.Context["resolved"])
	assert.Equal(t, 12, appErr.Context["expected"])
	assert.Equal(t, []string{"2021 JAN"}, appErr.Context["unresolved"])
}

func TestConstructors(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{"parsing", NewParsingError("p", cause), ErrTypeParsing, "[PARSING] p: cause"},
		{"storage", NewStorageError("s", cause), ErrTypeStorage, "[STORAGE] s: cause"},
		{"validation", NewAppValidationError("v"), ErrTypeValidation, "[VALIDATION] v"},
		{"not found", NewNotFoundError("CPI.csv"), ErrTypeNotFound, "[NOT_FOUND] CPI.csv not found"},
		{"config", NewConfigError("c", cause), ErrTypeConfig, "[CONFIG] c: cause"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestAppError_ErrorsIntegration(t *testing.T) {
	t.Run("errors.Is follows the cause", func(t *testing.T) {
		root := fmt.Errorf("root cause")
		appErr := NewStorageError("write failed", root)
		assert.True(t, errors.Is(appErr, root))
		assert.False(t, errors.Is(appErr, fmt.Errorf("other")))
	})

	t.Run("errors.As through fmt wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("step reference: %w", NewDataConsistencyError(1, 2, nil))

		var appErr *AppError
		require.True(t, errors.As(wrapped, &appErr))
		assert.Equal(t, ErrTypeDataConsistency, appErr.Type)
	})
}

func TestIsType(t *testing.T) {
	consistency := NewDataConsistencyError(1, 2, []string{"2021 FEB"})

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("x"), false},
		{"direct", consistency, true},
		{"fmt wrapped", fmt.Errorf("run: %w", consistency), true},
		{"nested in other AppError", NewStorageError("outer", consistency), true},
		{"other type", NewParsingError("p", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDataConsistency(tt.err))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitDataConsistency, ExitCode(fmt.Errorf("wrap: %w", NewDataConsistencyError(0, 1, nil))))
	assert.Equal(t, ExitFailure, ExitCode(NewAppValidationError("bad")))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("plain")))
}
