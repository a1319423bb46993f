package http

import (
	"fmt"
	"net/http"
)

// Error codes shared by handlers and middleware.
const (
	CodeNotFound        = "ERR_NOT_FOUND"
	CodeBadRequest      = "ERR_BAD_REQUEST"
	CodeFeatureDisabled = "ERR_FEATURE_DISABLED"
	CodeTimeout         = "ERR_TIMEOUT"
	CodeInternal        = "ERR_INTERNAL"
)

// AppError is an error with a client-facing code and the HTTP status it
// maps to. The wrapped Err is logged, never rendered.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
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

func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
	}
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func NotFoundError(message string) *AppError {
	return NewAppError(CodeNotFound, "", message, http.StatusNotFound)
}

func NotFoundErrorf(format string, a ...interface{}) *AppError {
	return NotFoundError(fmt.Sprintf(format, a...))
}

func BadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, "", message, http.StatusBadRequest)
}

// FeatureDisabledError reports an operation gated off by a feature flag.
func FeatureDisabledError(message string) *AppError {
	return NewAppError(CodeFeatureDisabled, "", message, http.StatusForbidden)
}

// TimeoutError reports an operation that ran past its deadline.
func TimeoutError(message string) *AppError {
	return NewAppError(CodeTimeout, "", message, http.StatusGatewayTimeout)
}

func InternalError(message string) *AppError {
	return NewAppError(CodeInternal, "", message, http.StatusInternalServerError)
}
