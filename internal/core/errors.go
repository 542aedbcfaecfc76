package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFile is returned when the request carries no workbook.
	ErrNoFile = errors.New("no file provided")

	// ErrInvalidFileType is returned for uploads that are not .xlsx.
	ErrInvalidFileType = errors.New("invalid file type: only .xlsx files are allowed")

	// ErrInvalidKeywords is returned when the keyword list is not a JSON array of strings.
	ErrInvalidKeywords = errors.New("invalid keywords format")
)

// SheetNotFoundError reports a sheet name with no exact, case-sensitive
// match in the workbook. Its message is safe to show to users verbatim.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("input sheet '%s' not found in the Excel file (available: %s)",
		e.Sheet, strings.Join(e.Available, ", "))
}

// MalformedFileError reports an upload that is not a readable .xlsx container.
type MalformedFileError struct {
	Err error
}

func (e *MalformedFileError) Error() string {
	return fmt.Sprintf("malformed workbook: %v", e.Err)
}

func (e *MalformedFileError) Unwrap() error {
	return e.Err
}

// ColumnNotFoundError reports a content column that is absent from the header.
type ColumnNotFoundError struct {
	Column    string
	Sheet     string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' not found in sheet '%s' (available: %s)",
		e.Column, e.Sheet, strings.Join(e.Available, ", "))
}

// IsSheetNotFound reports whether err is or wraps a *SheetNotFoundError.
func IsSheetNotFound(err error) bool {
	var target *SheetNotFoundError
	return errors.As(err, &target)
}

// IsMalformedFile reports whether err is or wraps a *MalformedFileError.
func IsMalformedFile(err error) bool {
	var target *MalformedFileError
	return errors.As(err, &target)
}
