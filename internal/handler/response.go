package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sumire/jobboard/internal/domain"
)

// Envelope wraps every response body. Exactly one of Data and Error is set.
type Envelope struct {
	Data  any       `json:"data,omitempty"`
	Meta  *ListMeta `json:"meta,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// ListMeta describes a list response.
type ListMeta struct {
	Total int `json:"total"`
}

// APIError is the machine code and human message of a failed request.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError names the request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes data inside the standard envelope.
func JSON(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Data: data})
}

// JSONList writes a JSON list response with its item count.
func JSONList(c echo.Context, status int, data any, total int) error {
	return c.JSON(status, Envelope{Data: data, Meta: &ListMeta{Total: total}})
}

// HTTPErrorHandler renders every error returned by a handler or middleware as
// an error envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, apiErr := mapError(err)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, Envelope{Error: &apiErr})
	}
	if err != nil {
		slog.Error("write error response", "status", status, "error", err)
	}
}

// sentinelMapping ties a domain sentinel to its HTTP status and default message.
type sentinelMapping struct {
	sentinel error
	status   int
	code     string
	fallback string
	// detailed mappings prefer the text a service attached after the sentinel.
	detailed bool
}

var sentinelMappings = []sentinelMapping{
	{domain.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found", false},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required", false},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden", "You do not have permission to perform this action", false},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input", "The request body is invalid", true},
	{domain.ErrConflict, http.StatusBadRequest, "conflict", "The resource already exists or conflicts with current state", true},
	{domain.ErrPreconditionFailed, http.StatusBadRequest, "precondition_failed", "A required earlier step is missing", true},
}

func mapError(err error) (int, APIError) {
	// Field errors may arrive wrapped by echo's binder.
	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		return http.StatusBadRequest, APIError{
			Code:    "validation_error",
			Message: "Validation failed",
			Details: []FieldError{{Field: fieldErr.Field, Message: fieldErr.Message}},
		}
	}

	// Routing errors (404, 405) and binder failures.
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, APIError{Code: echoErrorCode(echoErr.Code), Message: msg}
	}

	for _, m := range sentinelMappings {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		msg := m.fallback
		if m.detailed {
			msg = detail(err, m.sentinel, m.fallback)
		}
		return m.status, APIError{Code: m.code, Message: msg}
	}

	slog.Error("unhandled error", "error", err)
	return http.StatusInternalServerError, APIError{
		Code:    "internal_error",
		Message: "An unexpected error occurred",
	}
}

// echoErrorCode maps the status of an echo error onto the API error codes.
func echoErrorCode(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= http.StatusInternalServerError:
		return "internal_error"
	}
	return "invalid_input"
}

// detail returns the text a service attached after sentinel, e.g. "already
// applied" for "resource conflict: already applied".
func detail(err, sentinel error, fallback string) string {
	prefix := sentinel.Error() + ": "
	msg := err.Error()
	if i := strings.LastIndex(msg, prefix); i >= 0 && i+len(prefix) < len(msg) {
		return msg[i+len(prefix):]
	}
	return fallback
}
