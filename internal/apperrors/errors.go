package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrMissingSourceFile indicates that a required source file (opening balance, extract) is absent.
var ErrMissingSourceFile = errors.New("missing source file")

// ErrNotImplemented indicates a report type without an implementation.
var ErrNotImplemented = errors.New("not yet implemented")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates valid credentials without the required permission.
var ErrForbidden = errors.New("forbidden")

// AppError carries an HTTP-facing code and message on top of an underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ReportError attaches the report context to a generation failure.
type ReportError struct {
	ReportType  string
	CompanyCode string
	Year        int
	Err         error
}

// NewReportError wraps err with the report type, company and year.
func NewReportError(reportType, companyCode string, year int, err error) *ReportError {
	return &ReportError{ReportType: reportType, CompanyCode: companyCode, Year: year, Err: err}
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report %s for company %s year %d: %v", e.ReportType, e.CompanyCode, e.Year, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}
