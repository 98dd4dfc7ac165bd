package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := &AppError{
		Message: "something went wrong",
	}
	if err.Error() != "something went wrong" {
		t.Errorf("expected 'something went wrong', got %v", err.Error())
	}

	wrappedErr := errors.New("underlying error")
	errWithWrap := &AppError{
		Message: "failed operation",
		Err:     wrappedErr,
	}
	expected := "failed operation: underlying error"
	if errWithWrap.Error() != expected {
		t.Errorf("expected %q, got %q", expected, errWithWrap.Error())
	}
	if !errors.Is(errWithWrap, wrappedErr) {
		t.Error("expected AppError to unwrap to the underlying error")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("Prompt is required", "PROMPT_REQUIRED", "Provide a prompt")
	if err.Type != ErrorTypeValidation {
		t.Errorf("expected TypeValidation, got %v", err.Type)
	}
	if err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err.StatusCode)
	}
	if err.Recovery != "Provide a prompt" {
		t.Errorf("expected 'Provide a prompt', got %v", err.Recovery)
	}
	if err.ErrorCode != "PROMPT_REQUIRED" {
		t.Errorf("expected PROMPT_REQUIRED, got %v", err.ErrorCode)
	}
}

func TestNewRecipeGenerationError(t *testing.T) {
	underlying := errors.New("ai failed")
	err := NewRecipeGenerationError("could not generate", "RECIPE_GENERATION_FAILED", underlying)
	if err.Type != ErrorTypeRecipeGeneration {
		t.Errorf("expected TypeRecipeGeneration, got %v", err.Type)
	}
	if err.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err.StatusCode)
	}
	if err.Err != underlying {
		t.Error("underlying error not correctly wrapped")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NewConfigurationError("Server misconfiguration", "MISSING_CREDENTIAL")
	wrapped := fmt.Errorf("proxy: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError in chain")
	}
	if got.ErrorCode != "MISSING_CREDENTIAL" {
		t.Errorf("expected MISSING_CREDENTIAL, got %s", got.ErrorCode)
	}

	if _, ok := AsAppError(errors.New("plain")); ok {
		t.Error("expected no AppError for plain error")
	}
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{"rate limit status", errors.New("hf API error (status 429): slow down"), "rate_limit"},
		{"genai rate limit", errors.New("Error 429, Message: quota, Status: RESOURCE_EXHAUSTED"), "rate_limit"},
		{"credit", errors.New("You have exceeded your monthly included credits"), "credit_exhausted"},
		{"server error", errors.New("hf API error (status 503): model loading"), "server_error"},
		{"client error", errors.New("hf API error (status 404): Not Found"), "client_error"},
		{"timeout", context.DeadlineExceeded, "timeout"},
		{"shape", NewUpstreamShapeError("missing steps", "INVALID_SHAPE"), "shape"},
		{"app error 500", NewImageGenerationError("both failed", "X", nil), "server_error"},
		{"app error 400", NewValidationError("bad", "BAD", ""), "client_error"},
		{"unknown", errors.New("some random error"), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err, "huggingface")
			if got.Type != tc.expected {
				t.Errorf("Classify(%v) = %s, expected %s", tc.err, got.Type, tc.expected)
			}
			if got.Provider != "huggingface" {
				t.Errorf("expected provider 'huggingface', got %s", got.Provider)
			}
		})
	}
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string   { return e.body }
func (e *statusError) HTTPStatus() int { return e.status }

func TestClassify_HTTPStatus(t *testing.T) {
	testCases := []struct {
		status   int
		expected string
	}{
		{429, "rate_limit"},
		{402, "credit_exhausted"},
		{503, "server_error"},
		{404, "client_error"},
	}

	for _, tc := range testCases {
		err := fmt.Errorf("attempt: %w", &statusError{status: tc.status, body: "Model is overloaded"})
		if got := Classify(err, "huggingface").Type; got != tc.expected {
			t.Errorf("Classify(status %d) = %s, expected %s", tc.status, got, tc.expected)
		}
	}
}

func TestClassify_Nil(t *testing.T) {
	if got := Classify(nil, "gemini"); got != nil {
		t.Errorf("Expected nil for nil error, got %v", got)
	}
}
