// Package errors provides standardized error handling for the comparison service.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMemberValidationFailed ErrorCode = "MEMBER_VALIDATION_FAILED"
	ErrCodeAgeOutOfRange          ErrorCode = "AGE_OUT_OF_RANGE"
	ErrCodeInvalidPayload         ErrorCode = "INVALID_PAYLOAD"

	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeStoreWriteFailed ErrorCode = "STORE_WRITE_FAILED"
	ErrCodeMalformedRecord  ErrorCode = "MALFORMED_RECORD"

	ErrCodeRateTableInvalid ErrorCode = "RATE_TABLE_INVALID"
	ErrCodeHistoryFailed    ErrorCode = "HISTORY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMemberValidationError marks bad family-member input. Only the offending
// member is aborted; the rest of the search proceeds.
func NewMemberValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMemberValidationFailed,
		Message:   "Family member validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAgeOutOfRangeError is raised when the insurance age falls outside [0, 100].
func NewAgeOutOfRangeError(age int) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgeOutOfRange,
		Message:   "Age must be between 0 and 100 years",
		Details:   fmt.Sprintf("computed insurance age: %d", age),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPayloadError marks a request body that failed schema validation.
func NewInvalidPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Request payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError is non-fatal: reads degrade to base table data.
func NewStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Override store unavailable, using base plan data",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreWriteFailedError signals that an edit was kept locally only.
func NewStoreWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreWriteFailed,
		Message:   "Cloud sync failed, edit retained locally",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedRecordError marks a corrupted stored entry that was discarded.
func NewMalformedRecordError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedRecord,
		Message:   "Stored record is malformed and was discarded",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateTableInvalidError is a programmer/config error: fatal at startup.
func NewRateTableInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateTableInvalid,
		Message:   "Rate table failed to load",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewHistoryFailedError wraps report-history persistence failures.
func NewHistoryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryFailed,
		Message:   "Report history operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	if se, ok := err.(*StandardError); ok {
		return se.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or "" when err is not a StandardError.
func CodeOf(err error) ErrorCode {
	if se, ok := err.(*StandardError); ok {
		return se.Code
	}
	return ""
}
