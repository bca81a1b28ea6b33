package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/render"

	"attendancify/internal/infrastructure"
)

// Problem type URIs returned in the "type" member
const (
	TypeValidation      = "/errors/validation"
	TypeSchema          = "/errors/schema"
	TypeNotFound        = "/errors/not-found"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeTimeout         = "/errors/timeout"
	TypeStorage         = "/errors/storage"
	TypePayloadTooLarge = "/errors/payload-too-large"
)

const internalDetail = "An unexpected error occurred while processing your request"

// appProblem describes how one AppError type is rendered. verbatim keeps the
// message as the detail; otherwise the full error, cause included, is shown.
type appProblem struct {
	status   int
	typ      string
	title    string
	code     string
	verbatim bool
}

var appProblems = map[ErrorType]appProblem{
	ErrTypeSchema:     {http.StatusUnprocessableEntity, TypeSchema, "Input File Schema Error", CodeSchemaError, true},
	ErrTypeValidation: {http.StatusBadRequest, TypeValidation, "Validation Failed", CodeValidationFailed, true},
	ErrTypeParsing:    {http.StatusUnprocessableEntity, TypeValidation, "Unreadable Input File", "PARSING_FAILED", false},
	ErrTypeStorage:    {http.StatusInternalServerError, TypeStorage, "Storage Error", "STORAGE_FAILED", true},
}

// ErrorHandler renders every failure of the HTTP layer as RFC 7807 problem
// details carrying the request's trace id.
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates an error handler. includeStack adds stack traces
// to 5xx responses and is meant for development only.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError writes err as a problem response. Client errors are logged at
// warn level, server errors at error level.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
		if h.includeStack {
			problem.WithExtension("stack", string(debug.Stack()))
		}
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	h.write(w, r, problem)
}

// ErrorToProblem maps err onto problem details without writing anything
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to process and was cancelled", r.URL.Path)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErrorToProblem(apiErr, r)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if p, ok := appProblems[appErr.Type]; ok {
			detail := appErr.Error()
			if p.verbatim {
				detail = appErr.Message
			}
			return NewProblemDetails(p.status, p.typ, p.title, detail, r.URL.Path).
				WithExtension("error_code", p.code)
		}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return NewProblemDetails(http.StatusRequestEntityTooLarge, TypePayloadTooLarge, "Payload Too Large",
			fmt.Sprintf("The request body exceeds the maximum allowed size of %d bytes", maxBytesErr.Limit), r.URL.Path)
	}

	return NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error", internalDetail, r.URL.Path)
}

func apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeValidationFailed, CodeInvalidRequest:
		problemType = TypeValidation
	case CodeSchemaError:
		problemType = TypeSchema
	case CodeNotFound:
		problemType = TypeNotFound
	case CodeRateLimited:
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(apiErr.StatusCode, problemType, http.StatusText(apiErr.StatusCode),
		apiErr.Message, r.URL.Path).
		WithExtension("error_code", apiErr.ErrorCode)
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// HandlePanic logs a recovered panic with its stack and answers 500. The
// panic value is only exposed when stacks are enabled.
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	stack := string(debug.Stack())
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", stack),
	)

	problem := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred", r.URL.Path)
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprint(recovered))
		problem.WithExtension("stack", stack)
	}
	h.write(w, r, problem)
}

// NotFound is the router's 404 handler
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found",
		"The requested resource was not found", r.URL.Path))
}

// MethodNotAllowed is the router's 405 handler
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, NewProblemDetails(http.StatusMethodNotAllowed, TypeValidation, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method), r.URL.Path))
}

func (h *ErrorHandler) write(w http.ResponseWriter, r *http.Request, problem *ProblemDetails) {
	problem.WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))
	if err := render.Render(w, r, problem); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render problem", slog.String("error", err.Error()))
	}
}
