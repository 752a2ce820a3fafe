// Package errors provides structured error handling for the feedsearch
// service. It defines error types with codes, messages, causes, and
// contextual information so that failures can be classified at the REST
// boundary without string matching.
package errors

import (
	"fmt"
	"log/slog"
)

// ErrorCode represents a categorized error type for structured error handling.
type ErrorCode string

// Error code constants for categorizing application errors.
const (
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeStore         ErrorCode = "STORE_ERROR"
	ErrCodeDirectory     ErrorCode = "DIRECTORY_ERROR"
	ErrCodeCrawler       ErrorCode = "CRAWLER_ERROR"
	ErrCodeSerialization ErrorCode = "SERIALIZATION_ERROR"
	ErrCodeUnknown       ErrorCode = "UNKNOWN_ERROR"
)

// AppError represents a structured application error with code, message,
// cause, and context. It implements the error interface and supports
// error unwrapping.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns a string representation of the AppError.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// BadRequestError creates an AppError for malformed client input.
func BadRequestError(message string, context map[string]interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Context: context,
	}
}

// NotFoundError creates an AppError for searches that produced no response.
func NotFoundError(message string, context map[string]interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
		Context: context,
	}
}

// StoreError creates an AppError for KV store failures.
func StoreError(message string, cause error, context map[string]interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeStore,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// DirectoryError creates an AppError for feed directory API failures.
func DirectoryError(message string, cause error, context map[string]interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeDirectory,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CrawlerError creates an AppError for crawl engine failures.
func CrawlerError(message string, cause error, context map[string]interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeCrawler,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// SerializationError creates an AppError for response projection failures.
func SerializationError(message string, cause error, context map[string]interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeSerialization,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// UnknownError creates an AppError for unclassified errors.
func UnknownError(message string, cause error, context map[string]interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeUnknown,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// LogError logs an AppError with structured logging and context.
func LogError(logger *slog.Logger, err error, operation string) {
	if logger == nil {
		return
	}

	if appErr, ok := err.(*AppError); ok {
		args := []any{
			"operation", operation,
			"error_code", appErr.Code,
			"message", appErr.Message,
		}
		if appErr.Cause != nil {
			args = append(args, "cause", appErr.Cause.Error())
		}
		for key, value := range appErr.Context {
			args = append(args, key, value)
		}
		logger.Error("application error", args...)
		return
	}

	logger.Error("unexpected error", "operation", operation, "error", err)
}
