package mcp

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"orgbridge/internal/platform"
)

type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Retryable bool   `json:"retryable"`
}

type ErrorEnvelope struct {
	Error   ErrorDetail `json:"error"`
	Details any         `json:"details,omitempty"`
}

// BuildErrorEnvelope converts a steady-state handler failure into the
// structured error payload returned for that single request.
func BuildErrorEnvelope(err error, details any) map[string]any {
	envelope := ErrorEnvelope{Error: classifyError(err)}
	out := map[string]any{"error": envelope.Error}
	if details != nil {
		out["details"] = details
	}
	return out
}

func classifyError(err error) ErrorDetail {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorDetail{Code: "timeout", Message: msg, Hint: "Increase the tool timeout or check platform latency.", Retryable: true}
	}
	if errors.Is(err, context.Canceled) {
		return ErrorDetail{Code: "canceled", Message: msg, Hint: "Request was canceled before completion.", Retryable: true}
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ErrorDetail{Code: "not_found", Message: msg, Hint: "Check the capability name against the advertised list.", Retryable: false}
	}
	var badSchema *InvalidSchemaError
	if errors.As(err, &badSchema) {
		return ErrorDetail{Code: "invalid_request", Message: msg, Hint: "Fix the tool's input schema.", Retryable: false}
	}

	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			return ErrorDetail{Code: "unauthorized", Message: msg, Hint: "Check the platform token or re-run the handshake.", Retryable: false}
		case apiErr.StatusCode == http.StatusForbidden:
			return ErrorDetail{Code: "forbidden", Message: msg, Hint: "Check org permissions for this record or object.", Retryable: false}
		case apiErr.StatusCode == http.StatusNotFound:
			return ErrorDetail{Code: "not_found", Message: msg, Hint: "Verify the record kind and identifier.", Retryable: false}
		case apiErr.StatusCode == http.StatusConflict:
			return ErrorDetail{Code: "conflict", Message: msg, Hint: "Record changed upstream; retry with latest state.", Retryable: true}
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return ErrorDetail{Code: "rate_limited", Message: msg, Hint: "Retry with backoff.", Retryable: true}
		case apiErr.StatusCode >= 500:
			return ErrorDetail{Code: "unavailable", Message: msg, Hint: "Platform API unavailable; retry later.", Retryable: true}
		default:
			return ErrorDetail{Code: "upstream_error", Message: msg, Hint: "Platform API error; verify inputs.", Retryable: false}
		}
	}

	if isInvalidRequestMessage(msg) {
		return ErrorDetail{Code: "invalid_request", Message: msg, Hint: "Fix request parameters or schema.", Retryable: false}
	}
	return ErrorDetail{Code: "internal", Message: msg, Hint: "Check server logs for details.", Retryable: false}
}

func isInvalidRequestMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "required") || strings.Contains(lower, "invalid") || strings.Contains(lower, "missing")
}
