package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeAccessDenied       ErrorCode = "ACCESS_DENIED"
	ErrCodeEmployeeInactive   ErrorCode = "EMPLOYEE_INACTIVE"

	ErrCodeAlreadyTimedIn     ErrorCode = "ALREADY_TIMED_IN"
	ErrCodeAlreadyTimedOut    ErrorCode = "ALREADY_TIMED_OUT"
	ErrCodeNoTimeInRecord     ErrorCode = "NO_TIME_IN_RECORD"
	ErrCodeAttendanceNotFound ErrorCode = "ATTENDANCE_NOT_FOUND"
	ErrCodeAttendanceExists   ErrorCode = "ATTENDANCE_EXISTS"

	ErrCodeInvalidQRCode  ErrorCode = "INVALID_QR_CODE"
	ErrCodeQRCodeNotFound ErrorCode = "QR_CODE_NOT_FOUND"

	ErrCodeEmployeeNotFound   ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeEmployeeExists     ErrorCode = "EMPLOYEE_EXISTS"
	ErrCodeEmployeeInUse      ErrorCode = "EMPLOYEE_IN_USE"
	ErrCodeDepartmentNotFound ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeDepartmentExists   ErrorCode = "DEPARTMENT_EXISTS"
	ErrCodeDepartmentInUse    ErrorCode = "DEPARTMENT_IN_USE"
	ErrCodeAdminNotFound      ErrorCode = "ADMIN_NOT_FOUND"
	ErrCodeUsernameTaken      ErrorCode = "USERNAME_TAKEN"
	ErrCodeReportNotFound     ErrorCode = "REPORT_NOT_FOUND"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so copies made by WithCause or WithDetails still match
// the sentinel they came from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy carrying cause; sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewStateConflictError is a conflict reported as 400, used for attendance
// transitions that are not allowed in the current state.
func NewStateConflictError(message string, code ErrorCode) *AppError {
	e := NewConflictError(message, code)
	e.StatusCode = http.StatusBadRequest
	return e
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid credentials", ErrCodeInvalidCredentials)
	ErrMissingToken       = NewUnauthorizedError("No token provided", ErrCodeMissingToken)
	ErrInvalidToken       = NewForbiddenError("Invalid or expired token", ErrCodeInvalidToken)
	ErrAccessDenied       = NewForbiddenError("Access denied", ErrCodeAccessDenied)
	ErrEmployeeInactive   = NewForbiddenError("Employee account is inactive", ErrCodeEmployeeInactive)

	ErrAlreadyTimedIn     = NewStateConflictError("Already timed in today", ErrCodeAlreadyTimedIn)
	ErrAlreadyTimedOut    = NewStateConflictError("Already timed out today", ErrCodeAlreadyTimedOut)
	ErrNoTimeInRecord     = NewStateConflictError("No time-in record for today", ErrCodeNoTimeInRecord)
	ErrAttendanceNotFound = NewNotFoundError("Attendance record not found", ErrCodeAttendanceNotFound)
	ErrAttendanceExists   = NewConflictError("Attendance already recorded for this date", ErrCodeAttendanceExists)

	ErrInvalidQRCode  = NewValidationError("Invalid or expired QR code", ErrCodeInvalidQRCode)
	ErrQRCodeNotFound = NewNotFoundError("No QR code found", ErrCodeQRCodeNotFound)

	ErrEmployeeNotFound   = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrEmployeeExists     = NewConflictError("Employee ID or email already exists", ErrCodeEmployeeExists)
	ErrEmployeeInUse      = NewConflictError("Employee has attendance records", ErrCodeEmployeeInUse)
	ErrDepartmentNotFound = NewNotFoundError("Department not found", ErrCodeDepartmentNotFound)
	ErrDepartmentExists   = NewConflictError("Department already exists", ErrCodeDepartmentExists)
	ErrDepartmentInUse    = NewConflictError("Department still has employees", ErrCodeDepartmentInUse)
	ErrAdminNotFound      = NewNotFoundError("Admin not found", ErrCodeAdminNotFound)
	ErrUsernameTaken      = NewConflictError("Username already exists", ErrCodeUsernameTaken)
	ErrReportNotFound     = NewNotFoundError("Report not found", ErrCodeReportNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Response is the error body written to clients.
type Response struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	resp := Response{Error: e.GetDetailedMessage()}
	if e.Type == ErrorTypeValidation {
		resp.Details = e.Details
	}
	if e.Type == ErrorTypeInternal {
		resp.Error = e.Message
	}
	return e.StatusCode, resp
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
