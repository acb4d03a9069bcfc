// Package core provides the table service: the loaded dataset, the column
// schema, and per-browser sessions holding table state. It has no HTTP or
// terminal dependencies and is shared by both frontends.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Errors are matched first by identity (errors.Is against the package
// sentinels below), then by message pattern.
//
// # Table Errors (TBL001-TBL099)
//
// Errors caused by a table action the engine rejected:
//
//	TBL001 - Unknown column: The column does not exist
//	         Action: Reload the page and try again
//	         Sentinel: table.ErrUnknownColumn
//
//	TBL002 - Not sortable: This column cannot be sorted
//	         Action: Sort by another column
//	         Sentinel: table.ErrColumnNotSortable
//
//	TBL003 - Invalid page size: The page size is not one of the offered choices
//	         Action: Pick a page size from the list
//	         Sentinel: table.ErrInvalidPageSize
//
//	TBL004 - Unknown action: The table does not support this action
//	         Action: Reload the page and try again
//	         Sentinel: table.ErrUnknownAction
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid parameter: A request parameter could not be read
//	         Action: Check the request parameters
//	         Sentinel: ErrInvalidParameter
//
//	REQ002 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ003 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: The table session no longer exists
//	         Action: Reload the page to start a new session
//	         Sentinel: ErrSessionNotFound, ErrSessionClosed
//
//	SES002 - Server busy: Too many open sessions
//	         Action: Please try again in a few minutes
//	         Sentinel: ErrTooManySessions
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Export busy: Too many exports in progress
//	         Action: Please wait a moment and try again
//	         Sentinel: ErrTooManyExports
//
//	EXP002 - Export failed: The file could not be generated
//	         Action: Please try again
//	         Patterns: "export failed"
//
// # Dataset Errors (DS001-DS099)
//
//	DS001 - Connection refused: Unable to connect to the data source
//	        Patterns: "connection refused"
//
//	DS002 - Timeout: Loading data timed out
//	        Patterns: "timeout"
//
//	DS003 - Unknown source: The configured data source is not supported
//	        Sentinel: dataset.ErrUnknownSource
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated sentinel or pattern to understand what triggered it
//  3. If ERR000, check application logs for the original technical error
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/datetable/internal/dataset"
	"github.com/JonMunkholm/datetable/internal/table"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type errorSentinel struct {
	target error
	msg    UserMessage
}

// errorSentinels are checked with errors.Is before any pattern.
var errorSentinels = []errorSentinel{
	{table.ErrUnknownColumn, UserMessage{
		Message: "The column does not exist",
		Action:  "Reload the page and try again",
		Code:    "TBL001",
	}},
	{table.ErrColumnNotSortable, UserMessage{
		Message: "This column cannot be sorted",
		Action:  "Sort by another column",
		Code:    "TBL002",
	}},
	{table.ErrInvalidPageSize, UserMessage{
		Message: "The page size is not one of the offered choices",
		Action:  "Pick a page size from the list",
		Code:    "TBL003",
	}},
	{table.ErrUnknownAction, UserMessage{
		Message: "The table does not support this action",
		Action:  "Reload the page and try again",
		Code:    "TBL004",
	}},
	{ErrInvalidParameter, UserMessage{
		Message: "A request parameter could not be read",
		Action:  "Check the request parameters",
		Code:    "REQ001",
	}},
	{ErrSessionNotFound, UserMessage{
		Message: "The table session has expired",
		Action:  "Reload the page to start a new session",
		Code:    "SES001",
	}},
	{ErrSessionClosed, UserMessage{
		Message: "The table session has expired",
		Action:  "Reload the page to start a new session",
		Code:    "SES001",
	}},
	{ErrTooManySessions, UserMessage{
		Message: "The server has too many open sessions",
		Action:  "Please try again in a few minutes",
		Code:    "SES002",
	}},
	{ErrTooManyExports, UserMessage{
		Message: "Too many exports are in progress",
		Action:  "Please wait a moment and try again",
		Code:    "EXP001",
	}},
	{dataset.ErrUnknownSource, UserMessage{
		Message: "The configured data source is not supported",
		Action:  "Check DATASET_SOURCE",
		Code:    "DS003",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "export failed",
		msg: UserMessage{
			Message: "The file could not be generated",
			Action:  "Please try again",
			Code:    "EXP002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the data source",
			Action:  "Please try again in a few moments",
			Code:    "DS001",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Loading data timed out",
			Action:  "Please try again later",
			Code:    "DS002",
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
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Known sentinels win over message patterns; if neither matches, a generic
// fallback message with code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
			return es.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
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

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError carries a technical error together with its user message.
// Error returns the user message; Unwrap returns the technical error.
type UserError struct {
	Err error
	Msg UserMessage
}

// NewUserError wraps err with its mapped user message. It returns nil for a nil err.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Err: err, Msg: MapError(err)}
}

func (e *UserError) Error() string { return e.Msg.Message }

func (e *UserError) Unwrap() error { return e.Err }
