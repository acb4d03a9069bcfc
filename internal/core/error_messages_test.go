package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/table"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "unknown column",
			err:         fmt.Errorf("dispatch: %w", fmt.Errorf("%w: %q", table.ErrUnknownColumn, "height")),
			wantCode:    "TBL001",
			wantMessage: "The column does not exist",
		},
		{
			name:        "column not sortable",
			err:         fmt.Errorf("%w: %q", table.ErrColumnNotSortable, "status"),
			wantCode:    "TBL002",
			wantMessage: "This column cannot be sorted",
		},
		{
			name:        "invalid page size",
			err:         fmt.Errorf("%w: 7", table.ErrInvalidPageSize),
			wantCode:    "TBL003",
			wantMessage: "The page size is not one of the offered choices",
		},
		{
			name:        "unknown action",
			err:         table.ErrUnknownAction,
			wantCode:    "TBL004",
			wantMessage: "The table does not support this action",
		},
		{
			name:        "invalid parameter",
			err:         fmt.Errorf("%w: page=abc", ErrInvalidParameter),
			wantCode:    "REQ001",
			wantMessage: "A request parameter could not be read",
		},
		{
			name:        "session not found",
			err:         fmt.Errorf("%w: abc", ErrSessionNotFound),
			wantCode:    "SES001",
			wantMessage: "The table session has expired",
		},
		{
			name:        "too many sessions",
			err:         ErrTooManySessions,
			wantCode:    "SES002",
			wantMessage: "The server has too many open sessions",
		},
		{
			name:        "too many exports",
			err:         ErrTooManyExports,
			wantCode:    "EXP001",
			wantMessage: "Too many exports are in progress",
		},
		{
			name:        "unknown dataset source",
			err:         fmt.Errorf("%w: mongo", dataset.ErrUnknownSource),
			wantCode:    "DS003",
			wantMessage: "The configured data source is not supported",
		},
		{
			name:        "deadline maps before timeout",
			err:         fmt.Errorf("load: %w", context.DeadlineExceeded),
			wantCode:    "REQ003",
			wantMessage: "Request timed out",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DS001",
			wantMessage: "Unable to connect to the data source",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("EXPORT FAILED: pdf output"),
			wantCode:    "EXP002",
			wantMessage: "The file could not be generated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := fmt.Errorf("%w: 7", table.ErrInvalidPageSize)
	result := FormatUserError(err)

	expected := "The page size is not one of the offered choices (Code: TBL003). Pick a page size from the list"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  table.ErrUnknownColumn,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("%w: abc", ErrSessionNotFound)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The table session has expired" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrSessionNotFound) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
