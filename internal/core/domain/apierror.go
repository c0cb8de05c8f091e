package domain

import (
	"errors"
	"fmt"
)

// Error codes the gateway understands. Backend-declared codes are passed
// through verbatim; anything can appear in APIError.Code, these are the ones
// with dedicated behavior.
const (
	CodeNetworkError   = "NETWORK_ERROR"
	CodeUnknownError   = "UNKNOWN_ERROR"
	CodeClientError    = "CLIENT_ERROR"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeBadRequest     = "BAD_REQUEST"
	CodeBindJSON       = "BIND_JSON"
	CodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// APIError is the single normalized error shape that leaves the API client.
// Every failure (backend JSON error body, transport error, or an
// unrecognized value) converges to it before reaching callers.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Payload map[string]any `json:"payload,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIError builds an APIError with an optional payload.
func NewAPIError(code, message string, payload map[string]any) *APIError {
	if code == "" {
		code = CodeUnknownError
	}
	if message == "" {
		message = "An unknown error occurred"
	}
	return &APIError{Code: code, Message: message, Payload: payload}
}

// APIErrorFrom normalizes an arbitrary error into an APIError. An APIError
// passes through unchanged; anything else is wrapped as CLIENT_ERROR with the
// original message preserved, and nil yields nil.
func APIErrorFrom(err error) *APIError {
	if err == nil {
		return nil
	}
	var api *APIError
	if errors.As(err, &api) {
		return api
	}
	return NewAPIError(CodeClientError, err.Error(), map[string]any{
		"originalError": err.Error(),
	})
}

func (e *APIError) IsNetworkError() bool { return e.Code == CodeNetworkError }

func (e *APIError) IsValidationError() bool {
	return e.Code == CodeBadRequest || e.Code == CodeBindJSON
}

func (e *APIError) IsAuthError() bool { return e.Code == CodeUnauthorized }

func (e *APIError) IsNotFoundError() bool { return e.Code == CodeNotFound }

func (e *APIError) IsConflictError() bool { return e.Code == CodeConflict }

// UserMessage returns a message safe to surface to an end user. The backend
// message wins when present, otherwise a generic text per code.
func (e *APIError) UserMessage() string {
	if e.Message != "" && e.Message != "An unknown error occurred" {
		return e.Message
	}
	switch e.Code {
	case CodeNetworkError:
		return "Connection error. Please check your internet connection."
	case CodeUnauthorized:
		return "You do not have permission to perform this action."
	case CodeNotFound:
		return "The requested resource was not found."
	case CodeConflict:
		return "The resource already exists or there is a conflict."
	case CodeBadRequest, CodeBindJSON:
		return "The data provided is invalid."
	case CodeInternalServer:
		return "Internal server error. Please try again later."
	default:
		return "An unexpected error has occurred."
	}
}
