package errors

import (
	stderrors "errors"
	"fmt"
)

// Application error types organized by category for better error handling

type ErrorType int

// Domain/Business Logic Errors - errors related to user input and business rules
const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound
	ErrorTypeInvalidLocation
	ErrorTypeInvalidTimeFormat

	// Weather provider errors
	ErrorTypeLocationNotFound
	ErrorTypeProvider
	ErrorTypeConnection
	ErrorTypeMalformedResponse

	// Infrastructure Errors - errors related to storage and delivery
	ErrorTypeStoreIO
	ErrorTypeDelivery

	// System/Configuration Errors - errors related to system setup and configuration
	ErrorTypeConfiguration
)

// String returns the string representation of error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND_ERROR"
	case ErrorTypeInvalidLocation:
		return "INVALID_LOCATION"
	case ErrorTypeInvalidTimeFormat:
		return "INVALID_TIME_FORMAT"
	case ErrorTypeLocationNotFound:
		return "LOCATION_NOT_FOUND"
	case ErrorTypeProvider:
		return "PROVIDER_ERROR"
	case ErrorTypeConnection:
		return "CONNECTION_ERROR"
	case ErrorTypeMalformedResponse:
		return "MALFORMED_RESPONSE"
	case ErrorTypeStoreIO:
		return "STORE_IO_FAILURE"
	case ErrorTypeDelivery:
		return "DELIVERY_ERROR"
	case ErrorTypeConfiguration:
		return "CONFIGURATION_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Short aliases used across the codebase
const (
	ValidationError        = ErrorTypeValidation
	NotFoundError          = ErrorTypeNotFound
	InvalidLocationError   = ErrorTypeInvalidLocation
	InvalidTimeFormatError = ErrorTypeInvalidTimeFormat
	LocationNotFoundError  = ErrorTypeLocationNotFound
	ProviderError          = ErrorTypeProvider
	ConnectionError        = ErrorTypeConnection
	MalformedResponseError = ErrorTypeMalformedResponse
	StoreIOError           = ErrorTypeStoreIO
	DeliveryError          = ErrorTypeDelivery
	ConfigurationError     = ErrorTypeConfiguration
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Domain/Business Logic Error Constructors
func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

func NewNotFoundError(message string) *AppError {
	return New(NotFoundError, message)
}

func NewInvalidLocationError(message string) *AppError {
	return New(InvalidLocationError, message)
}

func NewInvalidTimeFormatError(message string, cause error) *AppError {
	return Wrap(InvalidTimeFormatError, message, cause)
}

// Weather Provider Error Constructors
func NewLocationNotFoundError(message string) *AppError {
	return New(LocationNotFoundError, message)
}

func NewProviderError(message string, cause error) *AppError {
	return Wrap(ProviderError, message, cause)
}

func NewConnectionError(message string, cause error) *AppError {
	return Wrap(ConnectionError, message, cause)
}

func NewMalformedResponseError(message string, cause error) *AppError {
	return Wrap(MalformedResponseError, message, cause)
}

// Infrastructure Error Constructors
func NewStoreIOError(message string, cause error) *AppError {
	return Wrap(StoreIOError, message, cause)
}

func NewDeliveryError(message string, cause error) *AppError {
	return Wrap(DeliveryError, message, cause)
}

// System/Configuration Error Constructors
func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

// As is errors.As from the standard library
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// TypeOf returns the type of the outermost AppError in the chain, or ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err carries an AppError of the given type anywhere in its chain.
func Is(err error, errorType ErrorType) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Type == errorType {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// Helper functions for error type checking
func IsNotFoundError(err error) bool {
	return Is(err, NotFoundError)
}

func IsValidationError(err error) bool {
	return Is(err, ValidationError)
}

func IsInvalidLocationError(err error) bool {
	return Is(err, InvalidLocationError)
}

func IsInvalidTimeFormatError(err error) bool {
	return Is(err, InvalidTimeFormatError)
}

func IsLocationNotFoundError(err error) bool {
	return Is(err, LocationNotFoundError)
}

func IsProviderError(err error) bool {
	return Is(err, ProviderError)
}

func IsConnectionError(err error) bool {
	return Is(err, ConnectionError)
}

func IsMalformedResponseError(err error) bool {
	return Is(err, MalformedResponseError)
}

func IsStoreIOError(err error) bool {
	return Is(err, StoreIOError)
}

func IsDeliveryError(err error) bool {
	return Is(err, DeliveryError)
}

func IsConfigurationError(err error) bool {
	return Is(err, ConfigurationError)
}
