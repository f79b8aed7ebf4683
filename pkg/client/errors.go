package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
)

// ErrorCode is the closed set of failure categories the client reports.
type ErrorCode string

const (
	CodeNetworkError       ErrorCode = "NETWORK_ERROR"
	CodeTimeoutError       ErrorCode = "TIMEOUT_ERROR"
	CodeBadRequest         ErrorCode = "BAD_REQUEST"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeValidationError    ErrorCode = "VALIDATION_ERROR"
	CodeRateLimited        ErrorCode = "RATE_LIMITED"
	CodeServerError        ErrorCode = "SERVER_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	CodeUnknownError       ErrorCode = "UNKNOWN_ERROR"
)

// ErrCanceled is returned when a request is aborted through Cancel,
// CancelAll, or the caller's own context. Deliberate cancellation is not a
// transport failure, so it is reported as a sentinel rather than an APIError.
var ErrCanceled = errors.New("request canceled")

// APIError is a classified request failure with a user-facing message.
type APIError struct {
	Status  int
	Code    ErrorCode
	Message string
	Details any
}

func (e *APIError) Error() string {
	return e.Message
}

// Notifiable reports whether the error is eligible for automatic user-facing
// presentation. Connectivity failures are left to the caller to surface.
func (e *APIError) Notifiable() bool {
	return e.Code != CodeNetworkError && e.Code != CodeTimeoutError
}

// classifyTransport maps a failure that produced no HTTP response.
func classifyTransport(err error) error {
	if errors.Is(err, context.Canceled) {
		return ErrCanceled
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{
			Code:    CodeTimeoutError,
			Message: "Request timeout. Please check your connection and try again.",
		}
	}
	return &APIError{
		Code:    CodeNetworkError,
		Message: "Network error. Please check your internet connection.",
	}
}

// classifyStatus maps a non-2xx HTTP response. body is the already-read
// response body, from which a server-provided detail may be extracted.
func classifyStatus(status int, body []byte) *APIError {
	detail, details := extractDetail(body)
	apiErr := &APIError{Status: status, Details: details}
	switch status {
	case http.StatusBadRequest:
		apiErr.Code = CodeBadRequest
		apiErr.Message = orDefault(detail, "Invalid request. Please check your input.")
	case http.StatusUnauthorized:
		apiErr.Code = CodeUnauthorized
		apiErr.Message = "Session expired. Please login again."
	case http.StatusForbidden:
		apiErr.Code = CodeForbidden
		apiErr.Message = "You do not have permission to perform this action."
	case http.StatusNotFound:
		apiErr.Code = CodeNotFound
		apiErr.Message = "The requested resource was not found."
	case http.StatusUnprocessableEntity:
		apiErr.Code = CodeValidationError
		apiErr.Message = orDefault(detail, "Validation failed. Please check your input.")
	case http.StatusTooManyRequests:
		apiErr.Code = CodeRateLimited
		apiErr.Message = "Too many requests. Please try again later."
	case http.StatusInternalServerError:
		apiErr.Code = CodeServerError
		apiErr.Message = "Internal server error. Please try again later."
	case http.StatusServiceUnavailable:
		apiErr.Code = CodeServiceUnavailable
		apiErr.Message = "Service temporarily unavailable. Please try again later."
	default:
		apiErr.Code = CodeUnknownError
		apiErr.Message = orDefault(detail, "An unexpected error occurred.")
	}
	return apiErr
}

// extractDetail pulls the server's `detail` field out of an error body.
// FastAPI-style servers send either a string or a list of field errors
// carrying `msg`; the first message wins.
func extractDetail(body []byte) (string, any) {
	if len(body) == 0 {
		return "", nil
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return "", nil
	}

	var asString string
	if err := json.Unmarshal(envelope.Detail, &asString); err == nil {
		return asString, asString
	}

	var fieldErrors []struct {
		Msg string `json:"msg"`
		Loc []any  `json:"loc"`
	}
	if err := json.Unmarshal(envelope.Detail, &fieldErrors); err == nil && len(fieldErrors) > 0 {
		var details any
		_ = json.Unmarshal(envelope.Detail, &details)
		return fieldErrors[0].Msg, details
	}

	var details any
	_ = json.Unmarshal(envelope.Detail, &details)
	return "", details
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
