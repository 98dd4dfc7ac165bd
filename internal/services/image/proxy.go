package image

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/chefvision/server/internal/errors"
	"github.com/chefvision/server/internal/metrics"
	"github.com/chefvision/server/internal/utils"
)

// DefaultAttemptTimeout bounds a single model attempt.
const DefaultAttemptTimeout = 60 * time.Second

// Proxy validates a prompt and runs it through the model chain in order,
// returning the first image produced as a data URI.
type Proxy struct {
	models         []Model
	attemptTimeout time.Duration
}

func NewProxy(models []Model, attemptTimeout time.Duration) *Proxy {
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &Proxy{models: models, attemptTimeout: attemptTimeout}
}

// GenerateImage returns "data:image/png;base64,..." from the first model that
// succeeds. A blank prompt or a missing credential fails before any model is
// called. When every model fails the error message is the last model's error.
func (p *Proxy) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperrors.NewValidationError("Prompt is required", "PROMPT_REQUIRED", "Send a non-empty prompt.")
	}

	if len(p.models) == 0 {
		slog.ErrorContext(ctx, "Image proxy has no models configured")
		return "", apperrors.NewConfigurationError("Server misconfiguration", "NO_IMAGE_MODELS")
	}
	for _, m := range p.models {
		if !m.Configured() {
			slog.ErrorContext(ctx, "Missing image model credential", "model", m.Name())
			return "", apperrors.NewConfigurationError("Server misconfiguration", "MISSING_CREDENTIAL")
		}
	}

	attempts := make([]utils.Attempt[[]byte], 0, len(p.models))
	for _, m := range p.models {
		attempts = append(attempts, utils.Attempt[[]byte]{
			Name: m.Name(),
			Run:  instrument(m, prompt),
		})
	}

	last := p.models[len(p.models)-1].Name()
	payload, err := utils.WithFallback(ctx, attempts, utils.FallbackConfig{
		AttemptTimeout: p.attemptTimeout,
		OnFailure: func(name string, err error) {
			classified := apperrors.Classify(err, name)
			attrs := []any{
				"model", name,
				"reason", classified.Type,
				"error", err.Error(),
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				attrs = append(attrs, "status", statusErr.StatusCode)
			}
			if name == last {
				slog.ErrorContext(ctx, "Final image model failed", attrs...)
				return
			}
			metrics.RecordModelFallback(ctx, name, classified.Type)
			slog.WarnContext(ctx, "Image model failed, switching to next model", attrs...)
		},
	})
	if err != nil {
		var fbErr *utils.FallbackError
		if errors.As(err, &fbErr) {
			slog.ErrorContext(ctx, "All image models failed",
				"attempts", len(fbErr.Attempts),
				"failures", fbErr.Summary(),
			)
			return "", apperrors.NewImageGenerationError(fbErr.Last().Error(), "IMAGE_GENERATION_FAILED", fbErr)
		}
		return "", apperrors.NewImageGenerationError(err.Error(), "IMAGE_GENERATION_FAILED", err)
	}

	slog.InfoContext(ctx, "Image generated successfully", "bytes", len(payload))
	return EncodeDataURI(payload), nil
}

func instrument(m Model, prompt string) func(ctx context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		slog.DebugContext(ctx, "Generating with model", "model", m.Name())
		start := time.Now()
		payload, err := m.Generate(ctx, prompt)
		outcome := "success"
		if err != nil {
			outcome = apperrors.Classify(err, m.Name()).Type
		}
		metrics.RecordExternalCall(ctx, m.Name(), outcome, start)
		return payload, err
	}
}
