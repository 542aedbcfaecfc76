package core

// error_messages.go maps technical errors to user-facing messages with a
// support code. Typed errors are resolved first; everything else falls back
// to case-insensitive substring patterns, first match wins.
//
//	FILE001 - File too large          Patterns: "file too large", "request body too large"
//	FILE002 - Malformed workbook      Type: *MalformedFileError
//	FILE004 - No file                 Patterns: "no file provided"
//	FILE006 - Wrong file type         Patterns: "invalid file type"
//	SHEET001 - Sheet not found        Type: *SheetNotFoundError (message passed through verbatim)
//	COL001 - Column not found         Type: *ColumnNotFoundError (message passed through verbatim)
//	KW001 - Bad keyword list          Patterns: "invalid keywords"
//	ART001 - Download expired         Patterns: "artifact not found"
//	UPL002 - System busy              Patterns: "too many concurrent uploads"
//	UPL004 - Request cancelled        Patterns: "context canceled"
//	UPL005 - Request timeout          Patterns: "context deadline exceeded"
//	RATE001 - Rate limited            Patterns: "rate limit"
//	ERR000 - Anything else

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

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the workbook or remove unused sheets",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the workbook or remove unused sheets",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select an .xlsx file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "invalid file type",
		msg: UserMessage{
			Message: "Invalid file type. Only .xlsx files are allowed.",
			Action:  "Save the workbook as Excel Workbook (.xlsx) and upload again",
			Code:    "FILE006",
		},
	},
	{
		pattern: "invalid keywords",
		msg: UserMessage{
			Message: "Invalid keywords format",
			Action:  "Send keywords as a JSON array of strings",
			Code:    "KW001",
		},
	},
	{
		pattern: "artifact not found",
		msg: UserMessage{
			Message: "This download is no longer available",
			Action:  "Processed files are kept for a few seconds only. Process the file again",
			Code:    "ART001",
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "Too many files are being processed",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller workbook or check your connection",
			Code:    "UPL005",
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

// defaultMessage is returned when nothing matches. Support staff should check
// the logs for the original error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(&SheetNotFoundError{Sheet: "media sosial"})
//	// msg.Code == "SHEET001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var sheetErr *SheetNotFoundError
	if errors.As(err, &sheetErr) {
		return UserMessage{
			Message: sheetErr.Error(),
			Action:  "Sheet names are case-sensitive. Check the exact tab name",
			Code:    "SHEET001",
		}
	}

	var colErr *ColumnNotFoundError
	if errors.As(err, &colErr) {
		return UserMessage{
			Message: colErr.Error(),
			Action:  "Check the header row of the sheet",
			Code:    "COL001",
		}
	}

	var malformed *MalformedFileError
	if errors.As(err, &malformed) {
		return UserMessage{
			Message: "File processing failed: the upload is not a readable .xlsx workbook",
			Action:  "Open the file in Excel, save it as .xlsx and upload again",
			Code:    "FILE002",
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

// FormatUserError renders "Message (Code: XXX). Action" for display.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with its user-facing message.
type UserError struct {
	UserMessage
	Err error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with its mapped message. Returns nil for nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{UserMessage: MapError(err), Err: err}
}
