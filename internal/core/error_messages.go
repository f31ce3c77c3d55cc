package core

// # Error Codes Reference
//
// User-facing messages carry a code users can quote to support staff.
// Classified Service errors (see errors.go) map by kind first; everything
// else is matched against technical message patterns.
//
// # Record Errors
//
//	NF001  - Not found: The record does not exist or was deleted
//	         Action: Return to the list and pick another record
//
//	INT001 - Unknown child: A submitted row no longer belongs to this record
//	         Action: Reload the form; another user removed some rows
//
//	CON001 - Conflict: The record was changed by someone else
//	         Action: Reload the form and apply your changes again
//
// # Database Errors (DB001-DB007)
//
//	DB001 - Duplicate key             Patterns: "duplicate key"
//	DB002 - Unique constraint         Patterns: "unique constraint", "violates unique"
//	DB003 - Foreign key               Patterns: "foreign key constraint", "violates foreign key"
//	DB004 - Connection refused        Patterns: "connection refused"
//	DB005 - Connection reset          Patterns: "connection reset"
//	DB006 - Timeout                   Patterns: "timeout"
//	DB007 - Deadlock / busy           Patterns: "deadlock", "database is locked"
//
// # Validation Errors (VAL001-VAL007)
//
//	VAL001 - Invalid date             Patterns: "invalid date"
//	VAL002 - Invalid number           Patterns: "invalid number"
//	VAL003 - Required field           Patterns: "required field"
//	VAL004 - Invalid enum             Patterns: "invalid enum"
//	VAL005 - Negative value           Patterns: "must not be negative"
//	VAL006 - Duplicate row            Patterns: "duplicate child id"
//	VAL007 - Any other validation failure
//
// # Requests
//
//	REQ001 - Request cancelled        Patterns: "context canceled"
//	REQ002 - Request timeout          Patterns: "context deadline exceeded"
//	RATE001 - Rate limited            Patterns: "rate limit"
//	RATE002 - Export slots busy       Patterns: "too many concurrent exports"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application log for the
// original technical error.
//
// Patterns are matched case-insensitively using strings.Contains; the first
// match wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	notFoundMessage = UserMessage{
		Message: "The record does not exist or was deleted",
		Action:  "Return to the list and pick another record",
		Code:    "NF001",
	}
	integrityMessage = UserMessage{
		Message: "Some submitted rows no longer belong to this record",
		Action:  "Reload the form; another user removed some rows",
		Code:    "INT001",
	}
	conflictMessage = UserMessage{
		Message: "The record was changed by someone else",
		Action:  "Reload the form and apply your changes again",
		Code:    "CON001",
	}
	validationMessage = UserMessage{
		Message: "Some fields are invalid",
		Action:  "Correct the highlighted fields and save again",
		Code:    "VAL007",
	}
)

// constraintPatterns are checked before the conflict kind, so a write
// rejected by a constraint reports the constraint.
var constraintPatterns = []errorPattern{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Reload the form and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Pick an existing record from the list",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Pick an existing record from the list",
			Code:    "DB003",
		},
	},
}

var validationPatterns = []errorPattern{
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use YYYY-MM-DD, MM/DD/YYYY, or Jan 15, 2024",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Remove currency symbols and use standard decimal format",
			Code:    "VAL002",
		},
	},
	{
		pattern: "required field",
		msg: UserMessage{
			Message: "Required field is empty",
			Action:  "Fill in every required field",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Pick one of the offered values",
			Code:    "VAL004",
		},
	},
	{
		pattern: "must not be negative",
		msg: UserMessage{
			Message: "A value must not be negative",
			Action:  "Enter zero or a positive amount",
			Code:    "VAL005",
		},
	},
	{
		pattern: "duplicate child id",
		msg: UserMessage{
			Message: "The same row was submitted twice",
			Action:  "Reload the form and try again",
			Code:    "VAL006",
		},
	},
}

var systemPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "too many concurrent exports",
		msg: UserMessage{
			Message: "Too many exports are running",
			Action:  "Please try the download again in a few seconds",
			Code:    "RATE002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

func matchPattern(errStr string, patterns []errorPattern) (UserMessage, bool) {
	for _, ep := range patterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
}

// MapError converts an error to a user-friendly message.
//
// Example:
//
//	msg := MapError(err) // err wraps ErrConflict
//	// msg.Code == "CON001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, ErrNotFound):
		return notFoundMessage
	case errors.Is(err, ErrIntegrity):
		return integrityMessage
	case errors.Is(err, ErrValidation):
		if msg, ok := matchPattern(errStr, validationPatterns); ok {
			return msg
		}
		return validationMessage
	case errors.Is(err, ErrConflict):
		if msg, ok := matchPattern(errStr, constraintPatterns); ok {
			return msg
		}
		return conflictMessage
	}

	for _, patterns := range [][]errorPattern{constraintPatterns, validationPatterns, systemPatterns} {
		if msg, ok := matchPattern(errStr, patterns); ok {
			return msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
