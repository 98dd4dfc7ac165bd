package errors

import (
	"context"
	"errors"
	"strings"
)

// ProviderError represents a classified error from an AI provider
type ProviderError struct {
	Type     string // "rate_limit", "credit_exhausted", "server_error", "client_error", "timeout", "shape", "unknown"
	Message  string
	Provider string
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return e.Message
}

// Classify analyzes an upstream error and labels it for logs and metrics.
func Classify(err error, provider string) *ProviderError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	classified := func(kind string) *ProviderError {
		return &ProviderError{Type: kind, Message: msg, Provider: provider}
	}

	if errors.Is(err, context.DeadlineExceeded) || containsAny(msg, "deadline exceeded", "timeout") {
		return classified("timeout")
	}

	if appErr, ok := AsAppError(err); ok && appErr.Type == ErrorTypeUpstreamShape {
		return classified("shape")
	}

	var statusErr interface{ HTTPStatus() int }
	if errors.As(err, &statusErr) {
		switch status := statusErr.HTTPStatus(); {
		case status == 429:
			return classified("rate_limit")
		case status == 402:
			return classified("credit_exhausted")
		case status >= 500:
			return classified("server_error")
		case status >= 400:
			return classified("client_error")
		}
	}

	if containsAny(msg, "status 429", "http 429", "error 429", "rate limit", "too many requests", "resource_exhausted") {
		return classified("rate_limit")
	}

	if containsAny(msg, "status 402", "http 402", "insufficient credit", "credit exhausted", "billing", "exceeded your monthly") {
		return classified("credit_exhausted")
	}

	if appErr, ok := AsAppError(err); ok {
		if appErr.StatusCode >= 500 {
			return classified("server_error")
		}
		if appErr.StatusCode >= 400 {
			return classified("client_error")
		}
	}

	if containsAny(msg, "status 5", "http 5", "error 5", "server error", "internal error", "unavailable") {
		return classified("server_error")
	}

	if containsAny(msg, "status 4", "http 4", "error 4", "bad request", "unauthorized", "forbidden", "not found") {
		return classified("client_error")
	}

	return classified("unknown")
}

func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, substr := range substrs {
		if strings.Contains(lower, substr) {
			return true
		}
	}
	return false
}
