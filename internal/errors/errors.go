package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried by APIError and echoed as the error_code extension
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeSchemaError      = "SCHEMA_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
)

// APIError is a request-level failure with an explicit HTTP status. Domain
// failures use AppError instead and are mapped by ErrorHandler.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates an APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates an APIError carrying details for the client
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// ErrNotMultipart reports an upload request whose body could not be parsed
// as multipart/form-data.
func ErrNotMultipart(cause error) *APIError {
	e := New(http.StatusBadRequest, CodeInvalidRequest, "Request must be multipart/form-data")
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// ValidationError is one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every rejected field of a request
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates a 400 listing every rejected field
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed,
		"Request validation failed", ValidationErrors{Errors: errors})
}
