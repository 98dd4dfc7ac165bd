package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoAttempts is returned by WithFallback when the attempt list is empty.
var ErrNoAttempts = errors.New("no fallback attempts configured")

// Attempt is one named step of an ordered fallback chain.
type Attempt[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// FallbackConfig controls how WithFallback runs each attempt.
type FallbackConfig struct {
	// AttemptTimeout bounds each attempt individually. Zero means no per-attempt bound.
	AttemptTimeout time.Duration
	// OnFailure is called after every failed attempt, including the last.
	OnFailure func(name string, err error)
}

// FallbackError reports that every attempt failed. It unwraps to the last
// attempt's error and its message is that error's message.
type FallbackError struct {
	Attempts []AttemptFailure
}

// AttemptFailure records one failed attempt.
type AttemptFailure struct {
	Name string
	Err  error
}

func (e *FallbackError) Error() string {
	return e.Last().Error()
}

func (e *FallbackError) Unwrap() error {
	return e.Last()
}

// Last returns the final attempt's error.
func (e *FallbackError) Last() error {
	if len(e.Attempts) == 0 {
		return ErrNoAttempts
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// Summary lists every attempt's failure, for logs.
func (e *FallbackError) Summary() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Name, a.Err))
	}
	return strings.Join(parts, "; ")
}

// WithFallback runs attempts in order and returns the first success. Each
// attempt starts only after the previous one has failed. When all fail it
// returns a *FallbackError. A cancelled parent context stops the chain.
func WithFallback[T any](ctx context.Context, attempts []Attempt[T], config FallbackConfig) (T, error) {
	var zero T
	if len(attempts) == 0 {
		return zero, ErrNoAttempts
	}

	failed := &FallbackError{Attempts: make([]AttemptFailure, 0, len(attempts))}
	for _, attempt := range attempts {
		if err := ctx.Err(); err != nil {
			failed.Attempts = append(failed.Attempts, AttemptFailure{Name: attempt.Name, Err: err})
			return zero, failed
		}

		result, err := runAttempt(ctx, attempt, config.AttemptTimeout)
		if err == nil {
			return result, nil
		}

		failed.Attempts = append(failed.Attempts, AttemptFailure{Name: attempt.Name, Err: err})
		if config.OnFailure != nil {
			config.OnFailure(attempt.Name, err)
		}
	}

	return zero, failed
}

func runAttempt[T any](ctx context.Context, attempt Attempt[T], timeout time.Duration) (T, error) {
	if timeout <= 0 {
		return attempt.Run(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return attempt.Run(attemptCtx)
}
