package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/pmadmin/internal/core/reconcile"
	"github.com/JonMunkholm/pmadmin/internal/store"
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
			name:        "not found kind",
			err:         notFound("get project", "project", 7),
			wantCode:    "NF001",
			wantMessage: "The record does not exist or was deleted",
		},
		{
			name:        "unknown child ids",
			err:         classify("update project", &reconcile.UnknownIDsError{ParentID: 1, IDs: []int64{9}}),
			wantCode:    "INT001",
			wantMessage: "Some submitted rows no longer belong to this record",
		},
		{
			name:        "version conflict",
			err:         conflict("update project", "the record was changed by someone else", nil),
			wantCode:    "CON001",
			wantMessage: "The record was changed by someone else",
		},
		{
			name:        "constraint conflict reports the constraint",
			err:         classify("update collaborator", &store.ConflictError{Err: errors.New("FOREIGN KEY constraint failed")}),
			wantCode:    "DB003",
			wantMessage: "Referenced record does not exist",
		},
		{
			name:        "required field",
			err:         invalid("create project", ValidationError{Field: "name", Message: "required field is empty"}),
			wantCode:    "VAL003",
			wantMessage: "Required field is empty",
		},
		{
			name:        "validation without a known pattern",
			err:         invalid("create project", ValidationError{Field: "email", Message: "not a valid email address"}),
			wantCode:    "VAL007",
			wantMessage: "Some fields are invalid",
		},
		{
			name:        "duplicate key maps correctly",
			err:         errors.New("ERROR: duplicate key value violates unique constraint"),
			wantCode:    "DB001",
			wantMessage: "A record with this ID already exists",
		},
		{
			name:        "sqlite unique constraint",
			err:         errors.New("constraint failed: UNIQUE constraint failed: projects.name"),
			wantCode:    "DB002",
			wantMessage: "This value must be unique but already exists",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "timeout maps correctly",
			err:         errors.New("context deadline exceeded (timeout)"),
			wantCode:    "DB006",
			wantMessage: "Operation timed out",
		},
		{
			name:        "wrapped cancellation",
			err:         fmt.Errorf("list projects: %w", errors.New("context canceled")),
			wantCode:    "REQ001",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "busy export slots map correctly",
			err:         fmt.Errorf("export projects: %w", ErrTooManyExports),
			wantCode:    "RATE002",
			wantMessage: "Too many exports are running",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DUPLICATE KEY value violates"),
			wantCode:    "DB001",
			wantMessage: "A record with this ID already exists",
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
	err := conflict("update task", "stale", nil)
	result := FormatUserError(err)

	expected := "The record was changed by someone else (Code: CON001). Reload the form and apply your changes again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
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
			name: "classified error is user facing",
			err:  notFound("get task", "task", 1),
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
		techErr := errors.New("pq: duplicate key value")
		userErr := NewUserError(techErr)

		if userErr.Error() != "A record with this ID already exists" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, techErr) {
			t.Error("Unwrap() should return original error")
		}
	})
}
